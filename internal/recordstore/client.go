package recordstore

import (
	"bytes"         // Request body buffers
	"context"       // Context for HTTP calls
	"encoding/json" // JSON encoding/decoding
	"fmt"           // Error formatting
	"net/http"      // HTTP client
	"net/url"       // Query string encoding
	"strconv"       // Integer query parameters
	"strings"       // URL trimming
	"time"          // Request timeout

	"github.com/igaramadana/DataQu/internal/domain" // Importing domain models
)

// RequestTimeout bounds every record store call
const RequestTimeout = 10 * time.Second

// Client is a typed HTTP client for the record store collections
// (users, packages, transactions) with json-server style filter and
// sort query parameters.
type Client struct {
	baseURL string       // Record store base URL, no trailing slash
	client  *http.Client // Underlying HTTP client
}

// NewClient creates a record store client for the given base URL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"), // Normalize the base URL
		client:  &http.Client{Timeout: RequestTimeout},
	}
}

// get issues a GET request and decodes the JSON response into dest
func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	u := c.baseURL + path // Build the request URL
	if len(query) > 0 {
		u += "?" + query.Encode() // Append encoded query parameters
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err // Return error if request creation fails
	}
	return c.do(req, dest)
}

// send issues a request with a JSON body and decodes the JSON response into dest
func (c *Client) send(ctx context.Context, method, path string, body, dest any) error {
	b, err := json.Marshal(body) // Marshal the request body
	if err != nil {
		return err // Return error if marshaling fails
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err // Return error if request creation fails
	}
	req.Header.Set("Content-Type", "application/json") // JSON request body
	return c.do(req, dest)
}

// do executes the request and decodes a 2xx JSON response into dest
func (c *Client) do(req *http.Request, dest any) error {
	resp, err := c.client.Do(req) // Execute the request
	if err != nil {
		return err // Transport failure
	}
	defer resp.Body.Close()
	// Any non-2xx status is a backend failure
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("record store: %s %s returned %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil // Caller does not need the body
	}
	return json.NewDecoder(resp.Body).Decode(dest) // Decode the response body
}

// FindUserByCredentials performs the credential check:
// GET /users?email=&password= returning one user on match, nil otherwise
func (c *Client) FindUserByCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	q := url.Values{}
	q.Set("email", email)       // Filter by email
	q.Set("password", password) // Credential check parameter
	var users []domain.User
	if err := c.get(ctx, "/users", q, &users); err != nil {
		return nil, err // Transport or backend failure
	}
	if len(users) == 0 {
		return nil, nil // No matching record
	}
	return &users[0], nil // The single matching record
}

// FindUserByEmail performs the signup existence check:
// GET /users?email= returning one user if the email is taken, nil otherwise
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := url.Values{}
	q.Set("email", email) // Filter by email
	var users []domain.User
	if err := c.get(ctx, "/users", q, &users); err != nil {
		return nil, err // Transport or backend failure
	}
	if len(users) == 0 {
		return nil, nil // Email is free
	}
	return &users[0], nil // Email is taken
}

// CreateUser creates a user record and returns it with its assigned ID
func (c *Client) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	var created domain.User
	if err := c.send(ctx, http.MethodPost, "/users", user, &created); err != nil {
		return nil, err // Transport or backend failure
	}
	return &created, nil
}

// PatchUserBalance partially updates a user record, setting its balance
func (c *Client) PatchUserBalance(ctx context.Context, userID string, balance int64) error {
	body := map[string]int64{"balance": balance} // Only the balance is patched
	return c.send(ctx, http.MethodPatch, "/users/"+userID, body, nil)
}

// ListPackages fetches the package catalog; limit 0 fetches everything
func (c *Client) ListPackages(ctx context.Context, limit int) ([]domain.Package, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("_limit", strconv.Itoa(limit)) // Cap the result size
	}
	var packages []domain.Package
	if err := c.get(ctx, "/packages", q, &packages); err != nil {
		return nil, err // Transport or backend failure
	}
	return packages, nil
}

// CreateTransaction creates one transaction record and returns it with its assigned ID
func (c *Client) CreateTransaction(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	var created domain.Transaction
	if err := c.send(ctx, http.MethodPost, "/transactions", tx, &created); err != nil {
		return nil, err // Transport or backend failure
	}
	return &created, nil
}

// ListTransactionsByUser fetches a user's transactions, newest first:
// GET /transactions?userId=&_sort=date&_order=desc
func (c *Client) ListTransactionsByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	q := url.Values{}
	q.Set("userId", userID) // Filter by owning user
	q.Set("_sort", "date")  // Sort by transaction date
	q.Set("_order", "desc") // Newest first
	var txs []domain.Transaction
	if err := c.get(ctx, "/transactions", q, &txs); err != nil {
		return nil, err // Transport or backend failure
	}
	return txs, nil
}
