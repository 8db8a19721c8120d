package clinics

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/mohae/deepcopy"

	noshowErrors "github.com/UMCU-Digital-Health/No-Show/errors"
)

var (
	ErrAmbiguousRule = fmt.Errorf("%w: both include and exclude codes configured", noshowErrors.InvalidConfig)
	ErrNoAgendaCodes = fmt.Errorf("%w: no main agenda codes configured", noshowErrors.InvalidConfig)
	ErrNoClinics     = fmt.Errorf("%w: no clinics configured", noshowErrors.InvalidConfig)
	ErrNotFound      = fmt.Errorf("clinic %w", noshowErrors.UnknownClinic)
)

// Rule restricts a code to an allow list or removes the codes of a block list.
// Exclude takes precedence when both are set, Validate rejects such rules.
type Rule struct {
	Include []string `yaml:"include,omitempty" json:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

func (r Rule) Validate() error {
	if len(r.Include) > 0 && len(r.Exclude) > 0 {
		return ErrAmbiguousRule
	}
	return nil
}

func (r Rule) matcher() func(code string) bool {
	if len(r.Exclude) > 0 {
		excluded := mapset.NewThreadUnsafeSet(r.Exclude...)
		return func(code string) bool { return !excluded.Contains(code) }
	}
	if len(r.Include) > 0 {
		included := mapset.NewThreadUnsafeSet(r.Include...)
		return func(code string) bool { return included.Contains(code) }
	}
	return func(string) bool { return true }
}

// Clinic is a logical clinic, a selection of agendas that is called by a single reception
type Clinic struct {
	Name            string   `yaml:"-" json:"name"`
	IncludeRCT      bool     `yaml:"include_rct" json:"includeRct"`
	PhoneNumber     string   `yaml:"phone_number" json:"phoneNumber"`
	TeleqName       string   `yaml:"teleq_name,omitempty" json:"teleqName,omitempty"`
	MainAgendaCodes []string `yaml:"main_agenda_codes" json:"mainAgendaCodes"`
	Subagendas      Rule     `yaml:"subagendas,omitempty" json:"subagendas,omitempty"`
	Appcodes        Rule     `yaml:"appcodes,omitempty" json:"appcodes,omitempty"`
}

func (c Clinic) Validate() error {
	if len(c.MainAgendaCodes) == 0 {
		return noshowErrors.NewInputError(ErrNoAgendaCodes).WithClinic(c.Name)
	}
	if err := c.Subagendas.Validate(); err != nil {
		return noshowErrors.NewInputError(fmt.Errorf("subagendas: %w", err)).WithClinic(c.Name)
	}
	if err := c.Appcodes.Validate(); err != nil {
		return noshowErrors.NewInputError(fmt.Errorf("appcodes: %w", err)).WithClinic(c.Name)
	}
	return nil
}

// Config is the static clinic configuration. It is loaded once at startup and must not
// be modified while predictions are running.
type Config struct {
	NoShowCodes []string          `yaml:"no_show_codes" json:"noShowCodes"`
	Clinics     map[string]Clinic `yaml:"clinics" json:"clinics"`
}

func (c *Config) Validate() error {
	if len(c.Clinics) == 0 {
		return noshowErrors.NewInputError(ErrNoClinics)
	}
	for _, name := range c.Names() {
		if err := c.Clinics[name].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the clinic names in the order in which the filters are applied
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Clinics))
	for name := range c.Clinics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config) Get(name string) (Clinic, error) {
	clinic, ok := c.Clinics[name]
	if !ok {
		return Clinic{}, noshowErrors.NewInputError(ErrNotFound).WithClinic(name)
	}
	return clinic, nil
}

// RCTClinics returns the names of the clinics that take part in the trial
func (c *Config) RCTClinics() mapset.Set[string] {
	result := mapset.NewSet[string]()
	for name, clinic := range c.Clinics {
		if clinic.IncludeRCT {
			result.Add(name)
		}
	}
	return result
}

func (c *Config) NoShowCodeSet() mapset.Set[string] {
	return mapset.NewSet(c.NoShowCodes...)
}

// Clone returns a deep copy that can be handed out without exposing the loaded configuration
func (c *Config) Clone() *Config {
	return deepcopy.Copy(c).(*Config)
}
