package socket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
)

// Client connects to the typedex daemon over a Unix socket.
type Client struct {
	sockPath string
}

// NewClient creates a client that will connect to the given socket path.
func NewClient(sockPath string) *Client {
	return &Client{sockPath: sockPath}
}

// Search sends a search request and returns the result.
func (c *Client) Search(query string) (*SearchResult, error) {
	var result SearchResult
	if err := c.do(MethodSearch, SearchParams{Query: query}, &result, 0); err != nil {
		return nil, err
	}
	return &result, nil
}

// Matchup sends a matchup request for one or two defending type names.
func (c *Client) Matchup(types ...string) (*MatchupResult, error) {
	var result MatchupResult
	if err := c.do(MethodMatchup, MatchupParams{Types: types}, &result, 0); err != nil {
		return nil, err
	}
	return &result, nil
}

// Mentions asks for every catalog name found in text.
func (c *Client) Mentions(text string) (*MentionsResult, error) {
	var result MentionsResult
	if err := c.do(MethodMentions, MentionsParams{Text: text}, &result, 0); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health sends a health check request.
func (c *Client) Health() (*HealthResult, error) {
	var result HealthResult
	if err := c.do(MethodHealth, nil, &result, 0); err != nil {
		return nil, err
	}
	return &result, nil
}

// Reload asks the daemon to re-read its catalog source. Uses an extended
// timeout since a reload may hit disk.
func (c *Client) Reload() (*ReloadResult, error) {
	var result ReloadResult
	if err := c.do(MethodReload, nil, &result, 30*time.Second); err != nil {
		return nil, err
	}
	return &result, nil
}

// Shutdown sends a shutdown request to the daemon.
func (c *Client) Shutdown() error {
	return c.do(MethodShutdown, nil, nil, 0)
}

// Ping checks if the daemon is reachable.
func (c *Client) Ping() bool {
	conn, err := net.DialTimeout("unix", c.sockPath, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// do sends one request and decodes its result into dest. A nil dest
// discards the result. A zero timeout uses the default.
func (c *Client) do(method string, params any, dest any, timeout time.Duration) error {
	req := Request{ID: uuid.NewString(), Method: method, Params: params}
	var (
		resp *Response
		err  error
	)
	if timeout > 0 {
		resp, err = c.callWithTimeout(req, timeout)
	} else {
		resp, err = c.call(req)
	}
	if err != nil {
		return err
	}
	if resp.ID != req.ID {
		return fmt.Errorf("response id %q does not match request %q", resp.ID, req.ID)
	}
	if dest == nil {
		return nil
	}

	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := json.Unmarshal(resultJSON, dest); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	return nil
}

func (c *Client) call(req Request) (*Response, error) {
	return c.callWithTimeout(req, 5*time.Second)
}

func (c *Client) callWithTimeout(req Request, timeout time.Duration) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.sockPath, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	// Deadline covers the whole request/response
	conn.SetDeadline(time.Now().Add(timeout))

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		return nil, fmt.Errorf("empty response")
	}

	var resp Response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("server error: %s", resp.Error)
	}
	return &resp, nil
}
