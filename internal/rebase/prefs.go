package rebase

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// LoadPreferred reads a preference list into a name set. Each non-comment,
// non-empty line names one record to prefer as a cluster representative;
// lines beginning with # are comments. An empty path or a missing file is
// not an error and yields an empty set.
func LoadPreferred(path string) (map[string]bool, error) {
	preferred := make(map[string]bool)
	if path == "" {
		return preferred, nil
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		log.Warn("preference list not found, none preferred", "path", path)
		return preferred, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open preference list %s: %v", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		preferred[strings.Fields(line)[0]] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read preference list %s: %v", path, err)
	}

	return preferred, nil
}
