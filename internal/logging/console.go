package logging

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var levelColors = map[string]*color.Color{
	"debug": color.New(color.FgHiBlack),
	"info":  color.New(color.FgCyan),
	"warn":  color.New(color.FgYellow),
	"error": color.New(color.FgRed, color.Bold),
}

// ConsoleLogger prints human-readable, colorized lines. It is meant for
// commands run from a terminal; color is dropped automatically when w is not a TTY.
type ConsoleLogger struct {
	component string
	fields    []Field
	out       io.Writer
	mu        *sync.Mutex
}

func NewConsoleLogger(component string, w io.Writer) *ConsoleLogger {
	return &ConsoleLogger{component: component, out: w, mu: &sync.Mutex{}}
}

func (c *ConsoleLogger) log(level, msg string, fields ...Field) {
	var b strings.Builder
	b.WriteString(time.Now().Format("15:04:05"))
	b.WriteByte(' ')
	b.WriteString(levelColors[level].Sprintf("%-5s", strings.ToUpper(level)))
	if c.component != "" {
		fmt.Fprintf(&b, " [%s]", c.component)
	}
	b.WriteByte(' ')
	b.WriteString(msg)

	all := mergeFields(c.fields, fields)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Key < all[j].Key })
	for _, f := range all {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, b.String())
}

func (c *ConsoleLogger) Debug(msg string, fields ...Field) { c.log("debug", msg, fields...) }
func (c *ConsoleLogger) Info(msg string, fields ...Field)  { c.log("info", msg, fields...) }
func (c *ConsoleLogger) Warn(msg string, fields ...Field)  { c.log("warn", msg, fields...) }
func (c *ConsoleLogger) Error(msg string, fields ...Field) { c.log("error", msg, fields...) }

func (c *ConsoleLogger) With(fields ...Field) Logger {
	child := &ConsoleLogger{
		component: c.component,
		fields:    append([]Field(nil), c.fields...),
		out:       c.out,
		mu:        c.mu,
	}
	for _, f := range fields {
		if f.Key == "component" {
			if str, ok := f.Value.(string); ok {
				child.component = str
				continue
			}
		}
		child.fields = append(child.fields, f)
	}
	return child
}

// Nop returns a logger that discards everything.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field)  {}
func (nopLogger) Warn(string, ...Field)  {}
func (nopLogger) Error(string, ...Field) {}
func (n nopLogger) With(...Field) Logger { return n }
