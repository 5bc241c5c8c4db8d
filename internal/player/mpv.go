package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

const ipcReadDeadline = 500 * time.Millisecond

// mpvCommand and mpvResponse mirror mpv's JSON IPC protocol.
type mpvCommand struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id,omitempty"`
}

type mpvResponse struct {
	Error     string `json:"error"`
	Data      any    `json:"data"`
	RequestID int    `json:"request_id"`
	Event     string `json:"event"`
}

// mpvProc is an mpv child with its IPC socket. It upgrades the plain process
// handle with live volume control and now-playing metadata.
type mpvProc struct {
	*execProc
	socket string
}

func (p *mpvProc) SetVolume(volume int) error {
	_, err := p.roundTrip(mpvCommand{
		Command:   []any{"set_property", "volume", volume},
		RequestID: 1,
	})
	return err
}

// Title reads mpv's media-title property, which carries the stream's ICY
// metadata when the station sends any.
func (p *mpvProc) Title() (string, error) {
	resp, err := p.roundTrip(mpvCommand{
		Command:   []any{"get_property", "media-title"},
		RequestID: 2,
	})
	if err != nil {
		return "", err
	}
	if resp.Error != "success" {
		// Property not available yet; not a failure.
		return "", nil
	}
	if title, ok := resp.Data.(string); ok {
		return title, nil
	}
	return "", nil
}

// roundTrip sends one command over a fresh socket connection and waits for
// the matching reply, skipping interleaved event notifications.
func (p *mpvProc) roundTrip(cmd mpvCommand) (mpvResponse, error) {
	conn, err := net.Dial("unix", p.socket)
	if err != nil {
		return mpvResponse{}, fmt.Errorf("mpv ipc connect: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(ipcReadDeadline))

	if err := json.NewEncoder(conn).Encode(cmd); err != nil {
		return mpvResponse{}, fmt.Errorf("mpv ipc send: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var resp mpvResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			continue
		}
		if resp.Event != "" {
			continue
		}
		if resp.RequestID == cmd.RequestID {
			return resp, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return mpvResponse{}, fmt.Errorf("mpv ipc read: %w", err)
	}
	return mpvResponse{}, fmt.Errorf("mpv ipc: no reply")
}
