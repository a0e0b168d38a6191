package glossary

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Pack is one domain glossary: fixed term translations plus translation
// memory examples fed to the model as hints.
type Pack struct {
	Domain string            `yaml:"domain"`
	Terms  map[string]string `yaml:"terms"`
	Memory []string          `yaml:"memory"`
}

// Store holds the loaded glossary packs, keyed by domain.
type Store struct {
	packs map[string]*Pack
}

func NewStore() *Store {
	return &Store{packs: make(map[string]*Pack)}
}

// LoadDir reads every .yaml/.yml pack under dir. Packs sharing a domain
// are merged, later files overriding earlier terms. A missing directory
// is not an error; translation simply runs without glossary hints.
func (s *Store) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read glossary dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		if err := s.loadFile(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read glossary file %s: %w", path, err)
	}

	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return fmt.Errorf("parse glossary file %s: %w", path, err)
	}
	if pack.Domain == "" {
		return fmt.Errorf("glossary file %s: missing domain", path)
	}

	existing, ok := s.packs[pack.Domain]
	if !ok {
		s.packs[pack.Domain] = &Pack{
			Domain: pack.Domain,
			Terms:  pack.Terms,
			Memory: pack.Memory,
		}
		if s.packs[pack.Domain].Terms == nil {
			s.packs[pack.Domain].Terms = make(map[string]string)
		}
		return nil
	}

	for source, target := range pack.Terms {
		existing.Terms[source] = target
	}
	existing.Memory = append(existing.Memory, pack.Memory...)
	return nil
}

// Lookup returns the pack for a domain, or nil when none is loaded.
func (s *Store) Lookup(domain string) *Pack {
	return s.packs[domain]
}

// Domains lists the loaded domains in sorted order.
func (s *Store) Domains() []string {
	domains := make([]string, 0, len(s.packs))
	for d := range s.packs {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}
