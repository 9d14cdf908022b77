package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dshills/scribe/internal/engine"
	"github.com/dshills/scribe/internal/engine/history"
	"github.com/dshills/scribe/internal/host"
)

var (
	errUnknownDirective = errors.New("unknown directive")
	errUsage            = errors.New("bad arguments")
	errNoSelection      = errors.New("no selection")
	errGroup            = errors.New("history group")
)

// runner executes play scripts against one editor.
type runner struct {
	ed  *engine.Editor
	doc *host.Memory
	out io.Writer

	// group is the open begin/end block, if any.
	group *history.GroupScope
}

func newRunner(ed *engine.Editor, doc *host.Memory, out io.Writer) *runner {
	return &runner{ed: ed, doc: doc, out: out}
}

// run executes the script line by line and stops at the first error.
// A group left open by the script is closed when it ends.
func (r *runner) run(script io.Reader) error {
	defer r.endGroup()

	sc := bufio.NewScanner(script)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := r.exec(line); err != nil {
			return fmt.Errorf("line %d: %s: %w", n, line, err)
		}
	}
	return sc.Err()
}

func (r *runner) exec(line string) error {
	directive, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch directive {
	case "load":
		if err := r.ed.SetHTML(rest, false); err != nil {
			return err
		}
		r.ed.PushHistory()
	case "content":
		return r.ed.SetContent(rest)
	case "select":
		return r.selectRange(rest)
	case "type":
		if !r.doc.Type(rest) {
			return errNoSelection
		}
	case "exec":
		name, value, _ := strings.Cut(rest, " ")
		if name == "" {
			return fmt.Errorf("%w: exec needs a command name", errUsage)
		}
		return r.ed.Execute(name, value)
	case "insert":
		return r.ed.InsertHTML(rest)
	case "paste":
		return r.ed.InsertPlainText(rest)
	case "push":
		if !r.ed.PushHistory() {
			fmt.Fprintln(r.out, "push: content unchanged")
		}
	case "undo":
		if !r.ed.Undo() {
			fmt.Fprintln(r.out, "undo: at oldest entry")
		}
	case "redo":
		if !r.ed.Redo() {
			fmt.Fprintln(r.out, "redo: at newest entry")
		}
	case "focus":
		r.ed.Focus()
	case "blur":
		r.ed.Blur()
	case "flush":
		r.ed.Flush()
	case "print":
		fmt.Fprintln(r.out, r.ed.Content())
	case "history":
		r.printHistory()
	case "begin":
		if r.group != nil {
			return fmt.Errorf("%w: already open", errGroup)
		}
		r.group = r.ed.History().GroupScope(rest)
	case "end":
		if r.group == nil {
			return fmt.Errorf("%w: not open", errGroup)
		}
		r.endGroup()
	default:
		return fmt.Errorf("%w: %s", errUnknownDirective, directive)
	}
	return nil
}

func (r *runner) endGroup() {
	if r.group != nil {
		r.group.End()
		r.group = nil
	}
}

func (r *runner) selectRange(args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return fmt.Errorf("%w: select <start> [end]", errUsage)
	}
	start, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	end := start
	if len(fields) == 2 {
		if end, err = strconv.Atoi(fields[1]); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
	}
	r.doc.Select(host.Range{Start: start, End: end})
	return nil
}

func (r *runner) printHistory() {
	for i, info := range r.ed.History().Info() {
		mark := " "
		if info.Current {
			mark = "*"
		}
		fmt.Fprintf(r.out, "%s %d %s\n", mark, i, info.Snapshot.Content())
	}
}
