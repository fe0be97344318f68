package file

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/recsync/recsync-cli/internal/core/domain"
)

// templateFile is the on-disk TOML shape of a feed template set.
type templateFile struct {
	Feeds []domain.FeedTemplate `toml:"feeds"`
}

// ReadTemplates loads feed templates from a TOML file.
func ReadTemplates(path string) ([]domain.FeedTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template file: %w", err)
	}

	var tf templateFile
	if err := toml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing template file: %w", err)
	}
	return tf.Feeds, nil
}

// WriteTemplates renders feed templates to a TOML file.
func WriteTemplates(path string, templates []domain.FeedTemplate) error {
	data, err := toml.Marshal(templateFile{Feeds: templates})
	if err != nil {
		return fmt.Errorf("encoding templates: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing template file: %w", err)
	}
	return nil
}
