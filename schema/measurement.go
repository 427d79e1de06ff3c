package schema

import (
	"encoding/json"
	"strings"
	"time"
)

// Measurement is one sensing session of a device, as stored in the primary store.
// JSON tags follow the payload sent by the mobile application.
type Measurement struct {
	SampleID int64  `json:"sampleID"`
	Owner    string `json:"userID"`
	MobileID string `json:"mobileID"`
	DeviceID string `json:"deviceID"`

	Laboratory      string `json:"laboratory"`
	FoodType        string `json:"foodType"`
	FoodSubtype     string `json:"foodSubtype"`
	UseCase         string `json:"useCase"`
	UseCaseSampleID string `json:"UseCaseSampleID"`

	Granularity    string `json:"granularity"`
	Mycotoxins     string `json:"mycotoxins"`
	AflatoxinName  string `json:"aflatoxinName"`
	AflatoxinUnit  string `json:"aflatoxinUnit"`
	AflatoxinValue string `json:"aflatoxinValue"`

	Temperature              *int   `json:"temperature"`
	TemperatureExposureHours string `json:"tempExposureHours"`
	MicrobiologicalID        string `json:"microbioSampleId"`
	MicrobiologicalUnit      string `json:"microbiologicalUnit"`
	MicrobiologicalValue     string `json:"microbiologicalValue"`

	OtherSpecies     string `json:"otherSpecies"`
	AdulterationID   string `json:"adulterationSampleId"`
	AlcoholLabel     string `json:"alcoholLabel"`
	Authentic        string `json:"authentic"`
	PuritySMP        string `json:"puritySMP"`
	LowValueFiller   string `json:"lowValueFiller"`
	NitrogenEnhancer string `json:"nitrogenEnhancer"`
	HazardOneName    string `json:"hazardOneName"`
	HazardOnePct     string `json:"hazardOnePct"`
	HazardTwoName    string `json:"hazardTwoName"`
	HazardTwoPct     string `json:"hazardTwoPct"`
	DilutedPct       string `json:"dilutedPct"`
	Package          string `json:"package"`
	Adulterated      string `json:"adul"`

	Configuration      json.RawMessage `json:"configuration,omitempty"`
	VIS                Payload         `json:"VIS"`
	NIR                Payload         `json:"NIR"`
	FLUO               Payload         `json:"FLUO"`
	WhiteReferenceTime string          `json:"whiteReferenceTime"`

	DateCreated time.Time `json:"dateTime"`
	DateUpdated time.Time `json:"dateUpdated"`
}

// Channel returns the payload of one spectrometer.
func (m *Measurement) Channel(c Channel) Payload {
	switch c {
	case VIS:
		return m.VIS
	case NIR:
		return m.NIR
	case FLUO:
		return m.FLUO
	default:
		return nil
	}
}

// SetChannel replaces the payload of one spectrometer.
func (m *Measurement) SetChannel(c Channel, p Payload) {
	switch c {
	case VIS:
		m.VIS = p
	case NIR:
		m.NIR = p
	case FLUO:
		m.FLUO = p
	}
}

// Discriminant returns the use-case specific sample label used in export file names.
func (m *Measurement) Discriminant() string {
	var part string
	switch m.UseCase {
	case FoodAdulteration:
		part = m.AdulterationID
	case FoodSpoilage:
		part = m.MicrobiologicalID
	case MycotoxinsDetection:
		part = m.FoodType
	default:
		return "other"
	}
	if part == "" {
		return "None"
	}
	return part
}

// DeriveUseCaseSampleID computes the cross-reference to the laboratory sample.
func (m *Measurement) DeriveUseCaseSampleID() string {
	switch m.UseCase {
	case MycotoxinsDetection:
		return m.AflatoxinValue + "_" + m.AflatoxinName
	case FoodSpoilage:
		return m.MicrobiologicalID
	case FoodAdulteration:
		return m.AdulterationID
	default:
		return ""
	}
}

// ShouldClassify reports whether an ingested measurement is sent to the classifier.
func ShouldClassify(useCase, operation string) bool {
	return !strings.EqualFold(useCase, TestUseCase) && strings.EqualFold(operation, AnalyzeOperation)
}

// Result holds the classification outcome of one measurement.
type Result struct {
	SampleID    int64             `json:"sampleID"`
	Data        map[Sensor]string `json:"data"`
	DateCreated time.Time         `json:"dateCreated"`
}

// NewResult returns a result where every sensor is not available.
func NewResult(sampleID int64) Result {
	data := make(map[Sensor]string, len(AllSensors))
	for _, s := range AllSensors {
		data[s] = NotAvailable
	}
	return Result{SampleID: sampleID, Data: data}
}

// Requester is the person asking for an export.
type Requester struct {
	Email string `json:"email"`
}

// Key returns the local part of the requester email.
func (r Requester) Key() string {
	local, _, _ := strings.Cut(r.Email, "@")
	return local
}

// User is a platform account as counted by statistics.
type User struct {
	Email string   `json:"email"`
	Type  UserType `json:"type"`
}

// Device is a registered handheld sensing device.
type Device struct {
	MAC  string `json:"mac"`
	Name string `json:"name"`
}

// Mobile is a registered phone that receives notifications.
type Mobile struct {
	DeviceID string `json:"deviceID"`
	Owner    string `json:"owner"`
}

// Registry lists the accounts and hardware known to the platform. Statistics
// count these records; measurements do not create them.
type Registry struct {
	Users   []User   `json:"users"`
	Devices []Device `json:"devices"`
	Mobiles []Mobile `json:"mobiles"`
}

// RegistryCounts reports how many registry records were written.
type RegistryCounts struct {
	Users   int `json:"users"`
	Devices int `json:"devices"`
	Mobiles int `json:"mobiles"`
}

// MeasurementFilter narrows measurement listings. Zero fields match everything.
type MeasurementFilter struct {
	SampleIDs []int64
	UseCase   string
	FoodType  string
}

// TaxonomyPair is a use case and food type combination present in the primary store.
type TaxonomyPair struct {
	UseCase  string
	FoodType string
}

// MeasurementSummary is the listing view of a measurement, without spectra.
type MeasurementSummary struct {
	SampleID        int64     `json:"sampleID"`
	Owner           string    `json:"userID"`
	MobileID        string    `json:"mobileID"`
	DeviceID        string    `json:"deviceID"`
	Laboratory      string    `json:"laboratory"`
	UseCase         string    `json:"useCase"`
	FoodType        string    `json:"foodType"`
	FoodSubtype     string    `json:"foodSubtype"`
	UseCaseSampleID string    `json:"UseCaseSampleID"`
	DateCreated     time.Time `json:"dateTime"`
}

// Summary returns the listing view of the measurement.
func (m *Measurement) Summary() MeasurementSummary {
	return MeasurementSummary{
		SampleID:        m.SampleID,
		Owner:           m.Owner,
		MobileID:        m.MobileID,
		DeviceID:        m.DeviceID,
		Laboratory:      m.Laboratory,
		UseCase:         m.UseCase,
		FoodType:        m.FoodType,
		FoodSubtype:     m.FoodSubtype,
		UseCaseSampleID: m.UseCaseSampleID,
		DateCreated:     m.DateCreated,
	}
}

// MeasurementFilters holds the values a measurement listing can be filtered by.
// Tree maps each use case to the food types recorded under it.
type MeasurementFilters struct {
	UseCases  []string            `json:"use_case"`
	FoodTypes []string            `json:"food_type"`
	Tree      map[string][]string `json:"uc_ft"`
}
