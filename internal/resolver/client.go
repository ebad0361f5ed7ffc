package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/battle"
	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/constants"
)

var (
	// ErrRejected is returned when the resolver answers with a failure
	// envelope (the move was not applied).
	ErrRejected = errors.New("resolver rejected the request")
	// ErrMalformedResponse is returned when the resolver's response does
	// not match either of the documented shapes.
	ErrMalformedResponse = errors.New("malformed resolver response")
)

// Summary is the participant's battle record as reported by the resolver.
type Summary struct {
	BattlesRemaining int `json:"battles_remaining"`
	Wins             int `json:"wins"`
	Losses           int `json:"losses"`
}

// MoveResult is the decoded outcome of a submitted move. Completed is
// true when the resolver returned the completion shape (a result field
// present); Result then carries the winning role.
type MoveResult struct {
	Session   *battle.Session
	Completed bool
	Result    string
}

// Client is a thin JSON client for the remote combat resolver. The
// resolver is authoritative and opaque; only these four calls matter.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the resolver at baseURL. Every call is
// bounded by timeout so a hung resolver cannot lock the session forever.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = constants.DefaultResolverTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// envelope is the outer shape of every resolver response.
type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

func (c *Client) get(ctx context.Context, path string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("resolver status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return resp.StatusCode, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	req.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("resolver status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// FetchSessionSummary returns the participant's aggregate battle record.
func (c *Client) FetchSessionSummary(ctx context.Context, participantID string) (*Summary, error) {
	var out Summary
	path := "/api/participants/" + url.PathEscape(participantID) + "/summary"
	if _, err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchActiveSession returns the participant's current battle, or
// (nil, nil) when the resolver reports none.
func (c *Client) FetchActiveSession(ctx context.Context, participantID string) (*battle.Session, error) {
	var out struct {
		Battle *battle.Session `json:"battle"`
	}
	path := "/api/participants/" + url.PathEscape(participantID) + "/battle"
	code, err := c.get(ctx, path, &out)
	if code == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out.Battle, nil
}

// SubmitMove submits one move. The resolver answers with one of two data
// shapes: `{battle: ...}` while the battle continues, or a shape carrying
// a `result` field once it concluded. The branch is on the presence of
// `result`, not on any separate flag.
func (c *Client) SubmitMove(ctx context.Context, participantID, sessionID, move string) (*MoveResult, error) {
	body := map[string]string{"participant": participantID, "move": move}
	var env envelope
	path := "/api/battles/" + url.PathEscape(sessionID) + "/move"
	if err := c.post(ctx, path, body, &env); err != nil {
		return nil, err
	}
	if env.Status != constants.StatusSuccess {
		if env.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrRejected, env.Error)
		}
		return nil, ErrRejected
	}

	var data struct {
		Result json.RawMessage `json:"result"`
		Battle *battle.Session `json:"battle"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if data.Battle == nil {
		return nil, ErrMalformedResponse
	}

	res := &MoveResult{Session: data.Battle}
	if len(data.Result) > 0 && string(data.Result) != "null" {
		res.Completed = true
		// The result payload is a bare string naming the winning role.
		_ = json.Unmarshal(data.Result, &res.Result)
	}
	return res, nil
}

// EndSession asks the resolver to clear a concluded battle.
func (c *Client) EndSession(ctx context.Context, participantID, sessionID string) error {
	body := map[string]string{"participant": participantID}
	var env envelope
	path := "/api/battles/" + url.PathEscape(sessionID) + "/end"
	if err := c.post(ctx, path, body, &env); err != nil {
		return err
	}
	if env.Status != constants.StatusSuccess {
		if env.Error != "" {
			return fmt.Errorf("%w: %s", ErrRejected, env.Error)
		}
		return ErrRejected
	}
	return nil
}
