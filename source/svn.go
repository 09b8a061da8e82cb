package source

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net/url"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/teranos/authorship/author"
	"github.com/teranos/authorship/errors"
	"github.com/teranos/authorship/logger"
)

// Options bound the revision range read from a Subversion log.
type Options struct {
	Start string // first revision; "0" when empty
	End   string // last revision; "HEAD" when empty
	Limit int    // maximum entries; 0 means unbounded
}

// LogRunner streams the XML output of "svn log" for the given arguments.
// Closing the reader reports any failure of the underlying command.
type LogRunner interface {
	Log(ctx context.Context, args []string) (io.ReadCloser, error)
}

// LogRunnerFunc adapts a function to LogRunner.
type LogRunnerFunc func(ctx context.Context, args []string) (io.ReadCloser, error)

// Log calls f(ctx, args).
func (f LogRunnerFunc) Log(ctx context.Context, args []string) (io.ReadCloser, error) {
	return f(ctx, args)
}

// ExecRunner runs the svn command line client.
type ExecRunner struct {
	Binary string // "svn" when empty
}

// Log starts svn log with args and streams its stdout.
func (r ExecRunner) Log(ctx context.Context, args []string) (io.ReadCloser, error) {
	bin := r.Binary
	if bin == "" {
		bin = "svn"
	}
	cmd := exec.CommandContext(ctx, bin, append([]string{"log"}, args...)...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "failed to attach to svn output")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "failed to start %s", bin)
	}
	return &commandOutput{ReadCloser: stdout, cmd: cmd, stderr: stderr}, nil
}

type commandOutput struct {
	io.ReadCloser
	cmd    *exec.Cmd
	stderr *bytes.Buffer
}

func (c *commandOutput) Close() error {
	_ = c.ReadCloser.Close()
	if err := c.cmd.Wait(); err != nil {
		if msg := strings.TrimSpace(c.stderr.String()); msg != "" {
			return errors.WithDetail(errors.Wrap(err, "svn log failed"), msg)
		}
		return errors.Wrap(err, "svn log failed")
	}
	return nil
}

var svnSchemes = map[string]bool{
	"svn":     true,
	"svn+ssh": true,
	"http":    true,
	"https":   true,
	"file":    true,
}

// Subversion reads committer identities from a Subversion log. Each log entry
// with a non-blank author yields a record carrying only that ID.
type Subversion struct {
	URL       string
	Path      string // appended to URL when set
	Options   Options
	ExtraArgs string // extra svn arguments, shell quoted ("--username bob --non-interactive")

	Runner LogRunner // ExecRunner when nil
	Logger *zap.SugaredLogger
}

// Name identifies the source in reports and logs.
func (s *Subversion) Name() string { return "svn" }

// Authors runs svn log and returns each revision author verbatim.
func (s *Subversion) Authors(ctx context.Context) (*author.Set, error) {
	log := logger.OrNop(s.Logger)

	target, err := s.target()
	if err != nil {
		return nil, err
	}
	args, err := s.args(target)
	if err != nil {
		return nil, err
	}

	runner := s.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	log.Infow("Reading Subversion log", logger.FieldRepository, target, "args", args)
	out, err := runner.Log(ctx, args)
	if err != nil {
		return nil, errors.RetrievalFailure(err, "failed to read log of %s", target)
	}

	set, entries, decodeErr := decodeLog(out)
	closeErr := out.Close()
	if decodeErr != nil {
		return nil, errors.RetrievalFailure(decodeErr, "failed to decode log of %s", target)
	}
	if closeErr != nil {
		return nil, errors.RetrievalFailure(closeErr, "failed to read log of %s", target)
	}

	log.Debugw("Read Subversion log",
		logger.FieldRepository, target,
		"entries", entries,
		logger.FieldCount, set.Len(),
	)
	return set, nil
}

// target validates URL and joins Path onto it.
func (s *Subversion) target() (string, error) {
	u, err := url.Parse(strings.TrimSpace(s.URL))
	if err != nil {
		return "", errors.RetrievalFailure(err, "malformed repository URL %q", s.URL)
	}
	if !svnSchemes[u.Scheme] {
		return "", errors.RetrievalFailure(nil, "malformed repository URL %q: unsupported scheme %q", s.URL, u.Scheme)
	}
	if u.Scheme != "file" && u.Host == "" {
		return "", errors.RetrievalFailure(nil, "malformed repository URL %q: missing host", s.URL)
	}

	target := strings.TrimSuffix(u.String(), "/")
	if p := strings.Trim(s.Path, "/"); p != "" {
		target += "/" + p
	}
	return target, nil
}

func (s *Subversion) args(target string) ([]string, error) {
	start, end := s.Options.Start, s.Options.End
	if start == "" {
		start = "0"
	}
	if end == "" {
		end = "HEAD"
	}

	args := []string{"--xml", "--quiet", "-r", start + ":" + end}
	if s.Options.Limit > 0 {
		args = append(args, "-l", strconv.Itoa(s.Options.Limit))
	}
	if s.ExtraArgs != "" {
		extra, err := shellquote.Split(s.ExtraArgs)
		if err != nil {
			return nil, errors.RetrievalFailure(err, "invalid svn arguments %q", s.ExtraArgs)
		}
		args = append(args, extra...)
	}
	return append(args, target), nil
}

type logEntry struct {
	Revision string `xml:"revision,attr"`
	Author   string `xml:"author"`
}

// decodeLog reads <logentry> elements one at a time.
func decodeLog(r io.Reader) (*author.Set, int, error) {
	set := author.NewSet()
	dec := xml.NewDecoder(r)
	entries := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return set, entries, nil
		}
		if err != nil {
			return nil, entries, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "logentry" {
			continue
		}
		var e logEntry
		if err := dec.DecodeElement(&e, &start); err != nil {
			return nil, entries, err
		}
		entries++
		if strings.TrimSpace(e.Author) != "" {
			set.Add(author.Author{ID: e.Author})
		}
	}
}
