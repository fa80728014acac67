package will

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRecord is returned when a will record misses required fields.
var ErrInvalidRecord = errors.New("invalid will record")

// Gender of the decedent or a child as recorded on the will form.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

const (
	// MaritalMarried is the marital status that makes a spouse an heir.
	MaritalMarried = "married"
	// StatusAlive marks a living parent.
	StatusAlive = "alive"
)

// Record is the will data captured by the will form and its JSON export.
// Monetary values are kept as entered; the estate package parses them.
type Record struct {
	PersonalInfo        PersonalInfo        `json:"personalInfo" yaml:"personalInfo"`
	FamilyInfo          FamilyInfo          `json:"familyInfo" yaml:"familyInfo"`
	Assets              Assets              `json:"assets" yaml:"assets"`
	Debts               []Debt              `json:"debts,omitempty" yaml:"debts,omitempty"`
	Charities           []Charity           `json:"charities,omitempty" yaml:"charities,omitempty"`
	Executors           []Executor          `json:"executors,omitempty" yaml:"executors,omitempty"`
	SpecialInstructions SpecialInstructions `json:"specialInstructions" yaml:"specialInstructions"`
	CreatedAt           string              `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

type PersonalInfo struct {
	FullName    string `json:"fullName" yaml:"fullName"`
	FatherName  string `json:"fatherName,omitempty" yaml:"fatherName,omitempty"`
	Gender      Gender `json:"gender" yaml:"gender"`
	DateOfBirth string `json:"dateOfBirth,omitempty" yaml:"dateOfBirth,omitempty"`
	Nationality string `json:"nationality,omitempty" yaml:"nationality,omitempty"`
	IDNumber    string `json:"idNumber,omitempty" yaml:"idNumber,omitempty"`
	Address     string `json:"address,omitempty" yaml:"address,omitempty"`
}

type FamilyInfo struct {
	MaritalStatus string  `json:"maritalStatus" yaml:"maritalStatus"`
	SpouseName    string  `json:"spouseName,omitempty" yaml:"spouseName,omitempty"`
	Children      []Child `json:"children,omitempty" yaml:"children,omitempty"`
	FatherAlive   string  `json:"fatherAlive,omitempty" yaml:"fatherAlive,omitempty"`
	MotherAlive   string  `json:"motherAlive,omitempty" yaml:"motherAlive,omitempty"`
}

type Child struct {
	Name   string `json:"childName" yaml:"childName"`
	Gender Gender `json:"childGender" yaml:"childGender"`
	DOB    string `json:"childDOB,omitempty" yaml:"childDOB,omitempty"`
}

type Assets struct {
	Cash     []CashAsset  `json:"cash,omitempty" yaml:"cash,omitempty"`
	Property []Property   `json:"property,omitempty" yaml:"property,omitempty"`
	Other    []OtherAsset `json:"other,omitempty" yaml:"other,omitempty"`
}

type CashAsset struct {
	Type     string `json:"cashType" yaml:"cashType"`
	Location string `json:"cashLocation,omitempty" yaml:"cashLocation,omitempty"`
	Amount   string `json:"cashAmount" yaml:"cashAmount"`
}

type Property struct {
	Type    string `json:"propertyType" yaml:"propertyType"`
	Address string `json:"propertyAddress,omitempty" yaml:"propertyAddress,omitempty"`
	Value   string `json:"propertyValue" yaml:"propertyValue"`
}

type OtherAsset struct {
	Type        string `json:"otherAssetType" yaml:"otherAssetType"`
	Description string `json:"otherAssetDesc,omitempty" yaml:"otherAssetDesc,omitempty"`
	Value       string `json:"otherAssetValue" yaml:"otherAssetValue"`
}

type Debt struct {
	Type     string `json:"debtType" yaml:"debtType"`
	Creditor string `json:"debtCreditor,omitempty" yaml:"debtCreditor,omitempty"`
	Amount   string `json:"debtAmount" yaml:"debtAmount"`
}

// Charity is a bequest expressed as a percentage of the net estate.
type Charity struct {
	Name    string `json:"charityName" yaml:"charityName"`
	Percent string `json:"charityPercent" yaml:"charityPercent"`
	Purpose string `json:"charityPurpose,omitempty" yaml:"charityPurpose,omitempty"`
}

type Executor struct {
	Name     string `json:"executorName" yaml:"executorName"`
	Relation string `json:"executorRelation,omitempty" yaml:"executorRelation,omitempty"`
	Phone    string `json:"executorPhone,omitempty" yaml:"executorPhone,omitempty"`
	Email    string `json:"executorEmail,omitempty" yaml:"executorEmail,omitempty"`
	Address  string `json:"executorAddress,omitempty" yaml:"executorAddress,omitempty"`
}

type SpecialInstructions struct {
	FuneralWishes       string `json:"funeralWishes,omitempty" yaml:"funeralWishes,omitempty"`
	SpecialInstructions string `json:"specialInstructions,omitempty" yaml:"specialInstructions,omitempty"`
}

// Validate checks the fields every calculation depends on. Gender may be
// empty; only a married decedent needs it to name the spouse.
func (r Record) Validate() error {
	var errs error
	if strings.TrimSpace(r.PersonalInfo.FullName) == "" {
		errs = multierr.Append(errs, fmt.Errorf("%w: full name is required", ErrInvalidRecord))
	}
	switch r.PersonalInfo.Gender {
	case "", GenderMale, GenderFemale:
	default:
		errs = multierr.Append(errs, fmt.Errorf("%w: unknown gender %q", ErrInvalidRecord, r.PersonalInfo.Gender))
	}
	return errs
}

// IsMarried reports a married decedent with a named spouse.
func (f FamilyInfo) IsMarried() bool {
	return f.MaritalStatus == MaritalMarried && strings.TrimSpace(f.SpouseName) != ""
}

// Load reads a will record from a JSON or YAML file, chosen by extension.
func Load(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read file: %w", err)
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses data as JSON when ext is ".json" and as YAML otherwise.
func Decode(data []byte, ext string) (Record, error) {
	var rec Record
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &rec); err != nil {
			return Record{}, fmt.Errorf("parse JSON: %w", err)
		}
		return rec, nil
	}
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("parse YAML: %w", err)
	}
	return rec, nil
}
