package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/facetkit/facet/internal/registry"
	"github.com/facetkit/facet/internal/types"
)

// LoadProject walks the configured scan paths and registers one file-backed
// component per template stem it finds. This is how the CLI sees a project:
// components declared purely in Go (inline methods, literals) are registered
// by the host application and are not visible to a directory scan.
func (s *Scanner) LoadProject(reg *registry.ComponentRegistry) (int, error) {
	caser := cases.Title(language.English)
	found := 0

	for _, root := range s.config.Components.ScanPaths {
		stems := make(map[string]string) // stem -> dir

		err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return filepath.SkipAll
				}
				return err
			}
			if entry.IsDir() || s.excluded(entry.Name()) {
				return nil
			}
			name := entry.Name()
			dot := strings.Index(name, ".")
			if dot <= 0 {
				return nil
			}
			stem := name[:dot]
			if _, _, ext, ok := ParseSidecarName(name, stem); !ok {
				return nil
			} else if _, known := s.extensions[ext]; !known {
				return nil
			}
			stems[stem] = filepath.Dir(path)
			return nil
		})
		if err != nil {
			return found, err
		}

		for stem, dir := range stems {
			component := &types.ComponentInfo{
				Name:     componentName(caser, stem),
				Package:  filepath.Base(dir),
				FilePath: filepath.Join(dir, stem+".go"),
			}
			if err := reg.Register(component); err != nil {
				return found, err
			}
			found++
		}
	}
	return found, nil
}

// componentName turns a file stem like "primary-button" into an exported
// component name like "PrimaryButton".
func componentName(caser cases.Caser, stem string) string {
	parts := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(caser.String(part))
	}
	if b.Len() == 0 {
		return caser.String(stem)
	}
	return b.String()
}
