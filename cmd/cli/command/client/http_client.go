package client

// http_client.go talks to the yamdb REST API on behalf of the CLI.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string `json:"error"`
	Field   string `json:"field"`
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Field, e.Message)
	}
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// Auth request/response structures
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

type TokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

// Catalog structures
type SlugItem struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type TitleResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Year        int        `json:"year"`
	Rating      *float64   `json:"rating"`
	Description string     `json:"description"`
	Genre       []SlugItem `json:"genre"`
	Category    *SlugItem  `json:"category"`
}

type TitleFilter struct {
	Genre    string
	Category string
	Year     int
	Name     string
	Page     int
}

// Review and comment structures
type ReviewRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

type ReviewResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

type CommentResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

type Page[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// constructor for HTTP client; apiURL is the server root, e.g. http://localhost:8080
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/") + "/api/v1",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// set token for HTTP client
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do sends body as JSON and decodes a 2xx answer into out when out is non-nil.
func (c *HTTPClient) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Signup registers a user; the server mails a confirmation code.
func (c *HTTPClient) Signup(request *SignupRequest) (*SignupResponse, error) {
	var result SignupResponse
	if err := c.do(http.MethodPost, "/auth/signup", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RequestCode asks for a fresh confirmation code.
func (c *HTTPClient) RequestCode(request *SignupRequest) (*MessageResponse, error) {
	var result MessageResponse
	if err := c.do(http.MethodPost, "/auth/confirmation_code", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Token exchanges a confirmation code for an access token.
func (c *HTTPClient) Token(request *TokenRequest) (*TokenResponse, error) {
	var result TokenResponse
	if err := c.do(http.MethodPost, "/auth/token", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Me() (*UserResponse, error) {
	var result UserResponse
	if err := c.do(http.MethodGet, "/users/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListTitles(filter TitleFilter) (*Page[TitleResponse], error) {
	q := url.Values{}
	if filter.Genre != "" {
		q.Set("genre", filter.Genre)
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Year != 0 {
		q.Set("year", strconv.Itoa(filter.Year))
	}
	if filter.Name != "" {
		q.Set("name", filter.Name)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}

	path := "/titles"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var result Page[TitleResponse]
	if err := c.do(http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetTitle(id int64) (*TitleResponse, error) {
	var result TitleResponse
	if err := c.do(http.MethodGet, fmt.Sprintf("/titles/%d", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListReviews(titleID int64, page int) (*Page[ReviewResponse], error) {
	var result Page[ReviewResponse]
	path := fmt.Sprintf("/titles/%d/reviews?page=%d", titleID, max(page, 1))
	if err := c.do(http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) CreateReview(titleID int64, request *ReviewRequest) (*ReviewResponse, error) {
	var result ReviewResponse
	if err := c.do(http.MethodPost, fmt.Sprintf("/titles/%d/reviews", titleID), request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteReview(titleID, reviewID int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/titles/%d/reviews/%d", titleID, reviewID), nil, nil)
}

func (c *HTTPClient) ListComments(titleID, reviewID int64, page int) (*Page[CommentResponse], error) {
	var result Page[CommentResponse]
	path := fmt.Sprintf("/titles/%d/reviews/%d/comments?page=%d", titleID, reviewID, max(page, 1))
	if err := c.do(http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) CreateComment(titleID, reviewID int64, request *CommentRequest) (*CommentResponse, error) {
	var result CommentResponse
	path := fmt.Sprintf("/titles/%d/reviews/%d/comments", titleID, reviewID)
	if err := c.do(http.MethodPost, path, request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteComment(titleID, reviewID, commentID int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/titles/%d/reviews/%d/comments/%d", titleID, reviewID, commentID), nil, nil)
}
