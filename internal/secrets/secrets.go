// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file is one secret: the filename is the key and the trimmed file
// contents are the value.
//
// Known keys: regdesk-api-token, openfda-api-key.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Known secret keys.
const (
	// KeyAPIToken is a backend token used when no login session exists.
	KeyAPIToken = "regdesk-api-token"
	// KeyOpenFDA is forwarded to the backend's openFDA proxy when set.
	KeyOpenFDA = "openfda-api-key"
)

// DefaultDir is where Load looks when no directory is configured.
const DefaultDir = ".secrets"

// Secrets is a loaded set of secrets.
type Secrets map[string]string

// Get returns the secret for key, or "".
func (s Secrets) Get(key string) string { return s[key] }

// Has reports whether key is set.
func (s Secrets) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty set. Unreadable files are logged and skipped.
func Load(dir string, log logrus.FieldLogger) (Secrets, error) {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.WithError(err).WithField("key", name).Warn("could not read secret")
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	log.WithFields(logrus.Fields{"dir": dir, "count": len(out)}).Debug("secrets loaded")
	return out, nil
}
