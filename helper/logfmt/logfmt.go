// Package logfmt renders log lines stamped with the time elapsed since
// process start, the format the node's observable output uses.
package logfmt

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// UptimeFormatter formats entries as "HH:MM:SS - message", where the clock is
// relative to Start rather than wall time. Non-info levels carry a level tag.
type UptimeFormatter struct {
	Start time.Time
}

func (f *UptimeFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	elapsed := entry.Time.Sub(f.Start)
	if elapsed < 0 {
		elapsed = 0
	}
	total := int64(elapsed.Seconds())

	var b bytes.Buffer
	fmt.Fprintf(&b, "%02d:%02d:%02d - ", total/3600%24, total/60%60, total%60)
	if entry.Level != logrus.InfoLevel {
		fmt.Fprintf(&b, "%s - ", strings.ToUpper(entry.Level.String()))
	}
	b.WriteString(entry.Message)
	b.WriteByte('\n')
	return b.Bytes(), nil
}
