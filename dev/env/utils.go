package devenv

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var modName = regexp.MustCompile(`(?m)^module *([\w\-_./]+)$`)

func isWorkspaceRoot(currentdir string) bool {
	mod, err := os.ReadFile(filepath.Join(currentdir, "go.mod"))
	if err != nil {
		return false
	}
	matches := modName.FindSubmatch(mod)
	return len(matches) >= 2 && string(matches[1]) == "ccapi"
}

func GetWorkspaceRoot() (string, error) {
	currentdir, err := filepath.Abs(".")
	if err != nil {
		return "", err
	}

	for {
		if isWorkspaceRoot(currentdir) {
			return currentdir, nil
		}
		parent := filepath.Dir(currentdir)
		if parent == currentdir {
			return "", os.ErrNotExist
		}
		currentdir = parent
	}
}

func GetStateFilePath(path string) (string, error) {
	root, err := GetWorkspaceRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "dev", ".state", path), nil
}

func GetStateFile(path string) ([]byte, error) {
	configPath, err := GetStateFilePath(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(configPath)
}

// LiveTestConfig reads the credentials for tests that talk to the real back
// office, the test is skipped when they haven't been set up.
func LiveTestConfig(t testing.TB) CCAPITestConfig {
	contents, err := GetStateFile("ccapi_config.json")
	if os.IsNotExist(err) {
		t.Skip("no dev/.state/ccapi_config.json, skipping live test")
	}
	if err != nil {
		t.Fatal(err)
	}

	var config CCAPITestConfig
	err = json.Unmarshal(contents, &config)
	if err != nil {
		t.Fatal(err)
	}
	if config.Username == "" {
		t.Skip("live test account not configured")
	}
	return config
}

// ResolvePath replaces a leading <dev_state> in path with the absolute path
// of the workspace's dev/.state directory.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, "<dev_state>") {
		return path, nil
	}

	root, err := GetWorkspaceRoot()
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(filepath.Join(root, "dev", ".state"), 0777)
	if err != nil {
		return "", err
	}

	subpath := strings.TrimPrefix(strings.TrimPrefix(path, "<dev_state>"), string(os.PathSeparator))
	return filepath.Join(root, "dev", ".state", subpath), nil
}
