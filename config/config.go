// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/kinfit/decay"
)

// Sentinel errors.
var (
	ErrInvalid       = errors.New("config: invalid decay description")
	ErrEmptyDecay    = errors.New("config: decay has no daughters")
	ErrUnknownGroup  = errors.New("config: group does not name a composite")
	ErrZeroMomentum  = errors.New("config: track momentum is zero")
	ErrDuplicateName = errors.New("config: duplicate name")
)

// Constraint is a requested mass constraint; a negative mass means none.
type Constraint struct {
	Mass  float64 `yaml:"mass"`
	Sigma float64 `yaml:"sigma"`
}

// UnmarshalYAML fills omitted fields with -1.
func (c *Constraint) UnmarshalYAML(n *yaml.Node) error {
	type raw Constraint
	r := raw{Mass: -1, Sigma: -1}
	if err := n.Decode(&r); err != nil {
		return err
	}
	*c = Constraint(r)

	return nil
}

// Track is a straight-line track in detector coordinates.
type Track struct {
	Point    [3]float64 `yaml:"point"`
	Momentum [3]float64 `yaml:"momentum"`
	Charge   int        `yaml:"charge" validate:"min=-3,max=3"`
}

// Daughter is a measured final-state particle.
type Daughter struct {
	Name   string  `yaml:"name" validate:"required,excludesall=/"`
	Mass   float64 `yaml:"mass"`
	Sigma  float64 `yaml:"sigma"`
	Search string  `yaml:"search" validate:"searchlist"`
	Source string  `yaml:"source" validate:"omitempty,len=1,searchlist"`
	Track  *Track  `yaml:"track"`
}

// UnmarshalYAML applies the daughter defaults.
func (d *Daughter) UnmarshalYAML(n *yaml.Node) error {
	type raw Daughter
	r := raw{Mass: -1, Sigma: -1, Search: decay.DefaultSearchList, Source: "c"}
	if err := n.Decode(&r); err != nil {
		return err
	}
	*d = Daughter(r)

	return nil
}

// Decay is a candidate: its daughters, its composites and the constraint and
// group used for its own fit.
type Decay struct {
	Name       string      `yaml:"name" validate:"required,excludesall=/"`
	Group      string      `yaml:"group" validate:"omitempty,excludesall=/"`
	Constraint Constraint  `yaml:"constraint"`
	Daughters  []*Daughter `yaml:"daughters" validate:"dive,required"`
	Composites []*Decay    `yaml:"composites" validate:"dive,required"`
}

// UnmarshalYAML leaves the constraint unset when omitted.
func (d *Decay) UnmarshalYAML(n *yaml.Node) error {
	type raw Decay
	r := raw{Constraint: Constraint{Mass: -1, Sigma: -1}}
	if err := n.Decode(&r); err != nil {
		return err
	}
	*d = Decay(r)

	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("searchlist", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for i := 0; i < len(s); i++ {
			if !strings.ContainsRune(decay.DefaultSearchList, rune(s[i])) {
				return false
			}
		}
		return true
	})

	return v
}

// Load reads and validates the decay description at path.
func Load(path string) (*Decay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return d, nil
}

// Parse decodes and validates a YAML decay description.
func Parse(data []byte) (*Decay, error) {
	var d Decay
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	return &d, nil
}

// Validate checks the struct tags and the cross-field rules of d and of
// every nested composite.
func (d *Decay) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return d.check(d.Name)
}

func (d *Decay) check(path string) error {
	if len(d.Daughters) == 0 && len(d.Composites) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyDecay, path)
	}
	seen := make(map[string]bool, len(d.Daughters)+len(d.Composites))
	for _, dd := range d.Daughters {
		if seen[dd.Name] {
			return fmt.Errorf("%w: %s/%s", ErrDuplicateName, path, dd.Name)
		}
		seen[dd.Name] = true
		if dd.Track != nil && dd.Track.Momentum == [3]float64{} {
			return fmt.Errorf("%w: %s/%s", ErrZeroMomentum, path, dd.Name)
		}
	}
	groupFound := d.Group == ""
	for _, c := range d.Composites {
		if seen[c.Name] {
			return fmt.Errorf("%w: %s/%s", ErrDuplicateName, path, c.Name)
		}
		seen[c.Name] = true
		groupFound = groupFound || c.Name == d.Group
		if err := c.check(path + "/" + c.Name); err != nil {
			return err
		}
	}
	if !groupFound {
		return fmt.Errorf("%w: %s group %q", ErrUnknownGroup, path, d.Group)
	}

	return nil
}
