package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/lapin/internal/command"
	"github.com/1broseidon/lapin/internal/runtimepath"
	"github.com/1broseidon/lapin/internal/wm"
)

// Client talks to a running window manager.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket of this session.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithPath(socketPath)
}

// NewClientWithPath creates a client for an explicit socket path.
func NewClientWithPath(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to lapin: %w (is the window manager running?)", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	if _, err := conn.Write(append(reqData, '\n')); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == StatusError {
		return nil, fmt.Errorf("lapin error: %s", resp.Error)
	}
	return &resp, nil
}

// Status retrieves a snapshot of the window model.
func (c *Client) Status() (*wm.Status, error) {
	resp, err := c.sendRequest(&Request{Command: CommandStatus})
	if err != nil {
		return nil, err
	}
	var st wm.Status
	if err := json.Unmarshal(resp.Data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &st, nil
}

// Exec runs an action line such as "workspace 2".
func (c *Client) Exec(action string) error {
	payload, err := json.Marshal(ExecPayload{Action: action})
	if err != nil {
		return fmt.Errorf("failed to marshal exec payload: %w", err)
	}
	_, err = c.sendRequest(&Request{Command: CommandExec, Payload: payload})
	return err
}

// Reload asks the window manager to re-read its configuration.
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// Actions lists the accepted action names.
func (c *Client) Actions() ([]command.Spec, error) {
	resp, err := c.sendRequest(&Request{Command: CommandActions})
	if err != nil {
		return nil, err
	}
	var data ActionsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse actions data: %w", err)
	}
	return data.Actions, nil
}

// Ping checks if the window manager is responding
func (c *Client) Ping() error {
	_, err := c.Status()
	return err
}
