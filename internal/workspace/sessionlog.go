package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// SessionLog appends "[time] [LEVEL] [STAGE] message | detail" lines to one
// file per process under base/logs.
type SessionLog struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewSessionLog(base string) (*SessionLog, error) {
	dir := filepath.Join(base, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}
	l := &SessionLog{
		path: filepath.Join(dir, "session-"+time.Now().Format("20060102-150405")+".log"),
		now:  time.Now,
	}
	l.Log("INFO", "BOOT", "session log initialized", dir)
	return l, nil
}

func (l *SessionLog) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Log never fails; a log line that cannot be written is dropped.
func (l *SessionLog) Log(level, stage, message, detail string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	line := fmt.Sprintf("[%s] [%s] [%s] %s", l.now().Format("15:04:05.000"), level, stage, message)
	if strings.TrimSpace(detail) != "" {
		line += " | " + detail
	}
	line += "\n"
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(line)
}
