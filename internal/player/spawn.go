package player

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Proc is the narrow handle the supervisor holds on a child process:
// signal, kill and exit observation, nothing else.
type Proc interface {
	Signal(sig os.Signal) error
	Kill() error
	// Done is closed once the process has exited and been reaped.
	Done() <-chan struct{}
	// Err returns the exit error; only valid after Done is closed.
	Err() error
}

// VolumeSetter is implemented by backends that support live volume control.
type VolumeSetter interface {
	SetVolume(volume int) error
}

// TitleReader is implemented by backends that expose now-playing metadata.
type TitleReader interface {
	Title() (string, error)
}

// Spawner launches one player process for a stream URL.
type Spawner interface {
	Spawn(url string, volume int) (Proc, error)
}

// ExecSpawner runs mpv or ffplay as the playback backend. mpv gets a JSON
// IPC socket for live volume and stream metadata; ffplay has neither, so
// volume only applies at launch.
type ExecSpawner struct {
	backend string
	path    string
}

// NewExecSpawner locates a player binary. preferred may name a binary to try
// first ("mpv", "ffplay" or a path); otherwise mpv then ffplay from PATH.
func NewExecSpawner(preferred string) (*ExecSpawner, error) {
	if preferred = strings.TrimSpace(preferred); preferred != "" {
		if path, err := exec.LookPath(preferred); err == nil {
			backend := "mpv"
			if strings.Contains(filepath.Base(path), "ffplay") {
				backend = "ffplay"
			}
			return &ExecSpawner{backend: backend, path: path}, nil
		}
	}
	if path, err := exec.LookPath("mpv"); err == nil {
		return &ExecSpawner{backend: "mpv", path: path}, nil
	}
	if path, err := exec.LookPath("ffplay"); err == nil {
		return &ExecSpawner{backend: "ffplay", path: path}, nil
	}
	return nil, errors.New("no player found: install mpv or ffplay and ensure it is in PATH")
}

// Backend reports which player binary this spawner uses.
func (s *ExecSpawner) Backend() string { return s.backend }

func (s *ExecSpawner) Spawn(url string, volume int) (Proc, error) {
	if url == "" {
		return nil, errors.New("stream url is required")
	}

	switch s.backend {
	case "mpv":
		return s.spawnMpv(url, volume)
	case "ffplay":
		return s.spawnFfplay(url, volume)
	}
	return nil, fmt.Errorf("unknown backend %q", s.backend)
}

func (s *ExecSpawner) spawnMpv(url string, volume int) (Proc, error) {
	socket := filepath.Join(os.TempDir(), fmt.Sprintf("airtune-mpv-%d.sock", time.Now().UnixNano()))
	cmd := exec.Command(s.path,
		"--no-video",
		"--really-quiet",
		fmt.Sprintf("--volume=%d", volume),
		"--input-ipc-server="+socket,
		url,
	)
	proc, err := startProc(cmd, func() { os.Remove(socket) })
	if err != nil {
		return nil, err
	}
	return &mpvProc{execProc: proc, socket: socket}, nil
}

func (s *ExecSpawner) spawnFfplay(url string, volume int) (Proc, error) {
	cmd := exec.Command(s.path,
		"-nodisp",
		"-autoexit",
		"-loglevel", "quiet",
		"-volume", fmt.Sprintf("%d", volume),
		url,
	)
	return startProc(cmd, nil)
}

type execProc struct {
	cmd     *exec.Cmd
	done    chan struct{}
	waitErr error
}

func startProc(cmd *exec.Cmd, cleanup func()) (*execProc, error) {
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, err
	}

	p := &execProc{cmd: cmd, done: make(chan struct{})}
	go func() {
		p.waitErr = cmd.Wait()
		if cleanup != nil {
			cleanup()
		}
		close(p.done)
	}()
	return p, nil
}

func (p *execProc) Signal(sig os.Signal) error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Signal(sig)
}

func (p *execProc) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}

func (p *execProc) Done() <-chan struct{} { return p.done }

func (p *execProc) Err() error { return p.waitErr }
