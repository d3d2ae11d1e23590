// Package remotefile downloads source files that are not present locally.
package remotefile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/jlaffaye/ftp"

	"finnhub_extractor/internal/feature/extraction/domain/entity"
)

const (
	defaultFTPPort = "21"
	anonymousUser  = "anonymous"
	dialTimeout    = 10 * time.Second
)

// ftpConn is the part of *ftp.ServerConn the fetcher uses.
type ftpConn interface {
	Login(user, password string) error
	Retr(path string) (io.ReadCloser, error)
	Quit() error
}

type serverConn struct {
	*ftp.ServerConn
}

func (c serverConn) Retr(path string) (io.ReadCloser, error) {
	return c.ServerConn.Retr(path)
}

func dialFTP(ctx context.Context, addr string) (ftpConn, error) {
	c, err := ftp.Dial(addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(dialTimeout))
	if err != nil {
		return nil, err
	}
	return serverConn{c}, nil
}

// Fetcher retrieves a remote file over ftp or http(s).
type Fetcher struct {
	client  *http.Client
	dialFTP func(ctx context.Context, addr string) (ftpConn, error)
}

func NewFetcher(client *http.Client) *Fetcher {
	return &Fetcher{client: client, dialFTP: dialFTP}
}

// FetchIfAbsent downloads sourceURL to targetPath unless targetPath already
// exists. The download goes to a temporary file that is renamed into place, so
// an interrupted fetch never leaves a partial target behind.
func (f *Fetcher) FetchIfAbsent(ctx context.Context, sourceURL, targetPath string) error {
	if _, err := os.Stat(targetPath); err == nil {
		slog.Info("ticker file already present", "path", targetPath)
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return notFetched(targetPath, err)
	}

	u, err := url.Parse(sourceURL)
	if err != nil {
		return notFetched(targetPath, err)
	}

	var body io.ReadCloser
	var closeConn func()
	switch u.Scheme {
	case "ftp":
		body, closeConn, err = f.openFTP(ctx, u)
	case "http", "https":
		body, err = f.openHTTP(ctx, u)
	default:
		err = fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if err != nil {
		return notFetched(targetPath, err)
	}
	if closeConn != nil {
		defer closeConn()
	}
	defer body.Close()

	n, err := writeAtomically(targetPath, body)
	if err != nil {
		return notFetched(targetPath, err)
	}

	slog.Info("ticker file fetched", "source", u.Redacted(), "path", targetPath, "bytes", n)
	return nil
}

func (f *Fetcher) openFTP(ctx context.Context, u *url.URL) (io.ReadCloser, func(), error) {
	host := u.Host
	if u.Port() == "" {
		host = net.JoinHostPort(u.Hostname(), defaultFTPPort)
	}

	conn, err := f.dialFTP(ctx, host)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", host, err)
	}
	quit := func() {
		if err := conn.Quit(); err != nil {
			slog.Warn("ftp quit failed", "host", host, "error", err)
		}
	}

	user, pass := anonymousUser, anonymousUser
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}
	if err := conn.Login(user, pass); err != nil {
		quit()
		return nil, nil, fmt.Errorf("login %s: %w", host, err)
	}

	r, err := conn.Retr(u.Path)
	if err != nil {
		quit()
		return nil, nil, fmt.Errorf("retrieve %s: %w", u.Path, err)
	}
	return r, quit, nil
}

func (f *Fetcher) openHTTP(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func writeAtomically(target string, r io.Reader) (int64, error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, err
	}
	return n, os.Rename(tmp.Name(), target)
}

func notFetched(path string, err error) error {
	return entity.Eventf(entity.FileNotFetched, "file [%s] could not be fetched and it is missing", path).Wrap(err)
}
