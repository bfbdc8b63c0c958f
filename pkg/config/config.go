// Package config loads the loader's YAML profile file. A profile groups NDEx
// credentials, the four STRING source URLs, local file names, and the cutoff
// scores for one load target, so one config file can drive several organisms
// or STRING releases.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Defaults applied by Load when a profile leaves them unset
const (
	DefaultStringVersion = "12.0"
	DefaultIconURL       = "https://home.ndexbio.org/img/STRING-logo.png"
	DefaultCutoff        = 0.7
)

var (
	ErrProfileNotFound = errors.New("profile not found")

	validate = validator.New()
)

// Sources holds the four remote gzip file URLs.
type Sources struct {
	ProteinLinks string `yaml:"protein_links" validate:"required,url"`
	Names        string `yaml:"names" validate:"required,url"`
	EntrezIDs    string `yaml:"entrez_ids" validate:"required,url"`
	UniprotIDs   string `yaml:"uniprot_ids" validate:"required,url"`
}

// Files holds the unpacked local file names, relative to the data directory.
type Files struct {
	Links   string `yaml:"links" validate:"required"`
	Names   string `yaml:"names" validate:"required"`
	Entrez  string `yaml:"entrez" validate:"required"`
	Uniprot string `yaml:"uniprot" validate:"required"`
	Output  string `yaml:"output" validate:"required"`
}

// Archive configures optional compression and S3 upload of output artifacts.
type Archive struct {
	Enabled bool   `yaml:"enabled"`
	Bucket  string `yaml:"bucket"`
	Prefix  string `yaml:"prefix"`
	Region  string `yaml:"region"`
}

// Profile is one named configuration section.
type Profile struct {
	Server   string `yaml:"server"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Token    string `yaml:"token"`

	// Networks maps a cutoff label (e.g. "0.7") to the UUID of the NDEx
	// network updated for that cutoff. Cutoffs without an entry get a
	// newly created network.
	Networks map[string]string `yaml:"networks"`

	Sources Sources `yaml:"sources"`
	Files   Files   `yaml:"files"`

	CutoffScores  []float64 `yaml:"cutoff_scores" validate:"omitempty,dive,gte=0,lte=1"`
	StringVersion string    `yaml:"string_version"`
	IconURL       string    `yaml:"icon_url" validate:"omitempty,url"`

	LedgerPath string  `yaml:"ledger"`
	Archive    Archive `yaml:"archive"`
}

// Load reads the YAML config at path and returns the named profile with
// defaults applied and validation done.
func Load(path, profile string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	profiles := make(map[string]*Profile)
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	p, ok := profiles[profile]
	if !ok || p == nil {
		return nil, fmt.Errorf("%s: %w: %q", path, ErrProfileNotFound, profile)
	}

	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %q: %w", profile, err)
	}
	return p, nil
}

func (p *Profile) applyDefaults() {
	if len(p.CutoffScores) == 0 {
		p.CutoffScores = []float64{DefaultCutoff}
	}
	if p.StringVersion == "" {
		p.StringVersion = DefaultStringVersion
	}
	if p.IconURL == "" {
		p.IconURL = DefaultIconURL
	}
}

// Validate checks the profile beyond what struct tags express.
func (p *Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	for label, id := range p.Networks {
		if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("networks[%s]: %q is not a UUID: %w", label, id, err)
		}
	}
	if p.Archive.Enabled && p.Archive.Bucket == "" {
		return errors.New("archive.bucket is required when archive.enabled")
	}
	return nil
}

// FormatCutoff renders a cutoff score the way it is used in network names and
// the networks map, e.g. 0.7 -> "0.7".
func FormatCutoff(cutoff float64) string {
	return strconv.FormatFloat(cutoff, 'g', -1, 64)
}

// NetworkID returns the configured NDEx network UUID for a cutoff, if any.
func (p *Profile) NetworkID(cutoff float64) (uuid.UUID, bool) {
	raw, ok := p.Networks[FormatCutoff(cutoff)]
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// OutputPath returns the output table path for a cutoff. With a single
// configured cutoff the plain output name is used; with several, the cutoff
// label is appended so each pass writes to its own file.
func (p *Profile) OutputPath(datadir string, cutoff float64) string {
	name := p.Files.Output
	if len(p.CutoffScores) > 1 {
		name = name + "." + FormatCutoff(cutoff)
	}
	return filepath.Join(datadir, name)
}

// NetworkName returns the display name of the network uploaded for a cutoff.
func (p *Profile) NetworkName(cutoff float64) string {
	return "STRING - Human Protein Links - High Confidence (Score > " + FormatCutoff(cutoff) + ")"
}
