package rebase

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/isrusin/rebase/config"
	"github.com/jlaffaye/ftp"
	"github.com/spf13/cobra"
)

// httpClient performs mirror requests; tests may replace it with a mock
// transport. No whole-request timeout, distribution files are large.
var httpClient = &http.Client{
	Transport: &http.Transport{ResponseHeaderTimeout: 30 * time.Second},
}

// FetchCmd downloads REBASE distribution files using a cobra command's
// flags. Without arguments it fetches the composite protein sequence file.
func FetchCmd(cmd *cobra.Command, args []string) {
	conf := config.New()

	files := args
	if len(files) == 0 {
		files = []string{config.SeqsFile}
	}
	dir, _ := cmd.Flags().GetString("dir")

	for _, file := range files {
		if err := Fetch(conf.Mirror, file, dir); err != nil {
			log.Fatal(err)
		}
	}
}

// Fetch downloads one distribution file from the mirror into dir. The
// download goes through a temporary file, so a broken transfer never
// replaces an existing copy.
func Fetch(mirror, file, dir string) error {
	src := strings.TrimRight(mirror, "/") + "/" + file
	stream, err := openRemote(src)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %v", src, err)
	}
	defer stream.Close()

	dest := filepath.Join(dir, file)
	if err := saveStream(stream, dest); err != nil {
		return fmt.Errorf("failed to save %s: %v", dest, err)
	}

	log.Info("fetched distribution file", "file", file, "mirror", mirror)

	return nil
}

// openRemote opens a download stream for an ftp:// or http(s):// source.
func openRemote(src string) (io.ReadCloser, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "ftp":
		return openFTP(u)
	case "http", "https":
		return openHTTP(src)
	}

	return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
}

// ftpFile closes the transfer stream and quits the control connection.
type ftpFile struct {
	*ftp.Response
	conn *ftp.ServerConn
}

func (f *ftpFile) Close() error {
	err := f.Response.Close()
	if qerr := f.conn.Quit(); qerr != nil && err == nil {
		err = qerr
	}
	return err
}

// openFTP starts an anonymous FTP download.
func openFTP(u *url.URL) (io.ReadCloser, error) {
	addr := u.Host
	if u.Port() == "" {
		addr += ":21"
	}

	conn, err := ftp.Dial(addr, ftp.DialWithTimeout(30*time.Second))
	if err != nil {
		return nil, err
	}
	if err := conn.Login("anonymous", "anonymous"); err != nil {
		conn.Quit()
		return nil, err
	}

	resp, err := conn.Retr(u.Path)
	if err != nil {
		conn.Quit()
		return nil, err
	}

	return &ftpFile{Response: resp, conn: conn}, nil
}

// openHTTP starts an HTTP download, retrying transport errors, throttling
// and server-side failures with a growing backoff.
func openHTTP(src string) (io.ReadCloser, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		resp, err := httpClient.Get(src)
		if err != nil {
			lastErr = err
		} else if resp.StatusCode == http.StatusOK {
			return resp.Body, nil
		} else {
			resp.Body.Close()
			lastErr = fmt.Errorf("mirror returned status %d", resp.StatusCode)
			if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
				return nil, lastErr
			}
		}
		time.Sleep(time.Duration(attempt*500) * time.Millisecond)
	}

	return nil, lastErr
}

// saveStream copies a download into dest through a temporary file in the
// same directory, renaming it over dest only after the whole stream is
// written out.
func saveStream(r io.Reader, dest string) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(dest)+".part*")
	if err != nil {
		return err
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), dest)
}
