package logging

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Writer prefixes every line handed to it by the log package with the
// current time in Loc. Out defaults to stdout.
type Writer struct {
	Loc *time.Location
	Out io.Writer
	Now func() time.Time
}

func (writer Writer) Write(b []byte) (n int, err error) {
	out := writer.Out
	if out == nil {
		out = os.Stdout
	}
	now := time.Now
	if writer.Now != nil {
		now = writer.Now
	}
	loc := writer.Loc
	if loc == nil {
		loc = time.UTC
	}
	return fmt.Fprintf(out, "%s %s", now().In(loc).Format("2006-01-02 15:04:05"), b)
}
