package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/shapelift/shapelift/pkg/engine"
)

// seedFromDir loads every .json/.yaml/.yml file in dir as a dataset named
// after the file. A malformed file is logged and skipped so one bad seed
// does not block startup.
func (m *Module) seedFromDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read seed dir %q: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		path := filepath.Join(dir, entry.Name())

		records, err := loadSeedFile(path, ext)
		if err != nil {
			m.logger.Warn("skipping malformed seed file",
				zap.String("file", path),
				zap.Error(err),
			)
			continue
		}

		if _, err := m.store.Upsert(ctx, name, records); err != nil {
			return fmt.Errorf("seed dataset %q: %w", name, err)
		}
		m.logger.Info("seeded dataset",
			zap.String("dataset", name),
			zap.Int("records", len(records)),
		)
	}

	return nil
}

func loadSeedFile(path, ext string) ([]engine.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []engine.Record
	if ext == ".json" {
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	if err := yaml.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}
