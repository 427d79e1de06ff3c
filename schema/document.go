package schema

// Aflatoxin is the nested toxin descriptor of a projected document.
type Aflatoxin struct {
	Name  string `bson:"name" json:"name"`
	Value string `bson:"value" json:"value"`
	Unit  string `bson:"unit" json:"unit"`
}

// ChannelDocument holds the projected arrays of one spectrometer. The wave
// key holds []float64; every other key holds the measurement-only readings
// as []any of float64, string or nil.
type ChannelDocument map[string]any

// Keys of a projected channel document.
const (
	DocWave           = "wave"
	DocData           = "data"
	DocAvgData        = "avgData"
	DocDark           = "dark"
	DocAvgDark        = "avgDark"
	DocWhite          = "white"
	DocAvgWhite       = "avgWhite"
	DocPreprocessed   = "preprocessed"
	DocDarkReference  = "darkReference"
	DocWhiteReference = "whiteReference"
	DocDarkForWhite   = "dark_for_white"
)

// CrossStoreDocument is a measurement flattened for the secondary document store.
type CrossStoreDocument struct {
	SampleID             int64           `bson:"sampleId" json:"sampleId"`
	Laboratory           string          `bson:"laboratory" json:"laboratory"`
	FoodType             string          `bson:"foodType" json:"foodType"`
	UseCase              string          `bson:"useCase" json:"useCase"`
	Granularity          string          `bson:"granularity" json:"granularity"`
	Mycotoxins           string          `bson:"mycotoxins" json:"mycotoxins"`
	Temperature          *int            `bson:"temperature" json:"temperature"`
	TempExposureHours    string          `bson:"tempExposureHours" json:"tempExposureHours"`
	MicrobioSampleID     string          `bson:"microbioSampleId" json:"microbioSampleId"`
	MicrobiologicalUnit  string          `bson:"microbiologicalUnit" json:"microbiologicalUnit"`
	MicrobiologicalValue string          `bson:"microbiologicalValue" json:"microbiologicalValue"`
	OtherSpecies         string          `bson:"otherSpecies" json:"otherSpecies"`
	FoodSubtype          string          `bson:"foodSubtype" json:"foodSubtype"`
	AdulterationSampleID string          `bson:"adulterationSampleId" json:"adulterationSampleId"`
	AlcoholLabel         string          `bson:"alcoholLabel" json:"alcoholLabel"`
	Authentic            string          `bson:"authentic" json:"authentic"`
	PuritySMP            string          `bson:"puritySMP" json:"puritySMP"`
	LowValueFiller       string          `bson:"lowValueFiller" json:"lowValueFiller"`
	NitrogenEnhancer     string          `bson:"nitrogenEnhancer" json:"nitrogenEnhancer"`
	HazardOneName        string          `bson:"hazardOneName" json:"hazardOneName"`
	HazardOnePct         string          `bson:"hazardOnePct" json:"hazardOnePct"`
	HazardTwoName        string          `bson:"hazardTwoName" json:"hazardTwoName"`
	HazardTwoPct         string          `bson:"hazardTwoPct" json:"hazardTwoPct"`
	DilutedPct           string          `bson:"dilutedPct" json:"dilutedPct"`
	Package              string          `bson:"package" json:"package"`
	DateTime             string          `bson:"dateTime" json:"dateTime"`
	Adul                 string          `bson:"adul" json:"adul"`
	Configuration        any             `bson:"configuration" json:"configuration"`
	WhiteReferenceTime   string          `bson:"whiteReferenceTime" json:"whiteReferenceTime"`
	Aflatoxin            Aflatoxin       `bson:"aflatoxin" json:"aflatoxin"`
	VIS                  ChannelDocument `bson:"VIS" json:"VIS"`
	NIR                  ChannelDocument `bson:"NIR" json:"NIR"`
	FLUO                 ChannelDocument `bson:"FLUO" json:"FLUO"`
}

// ReplicationRequest names the measurements pushed to one target collection.
type ReplicationRequest struct {
	SampleIDs  []int64 `json:"sampleIDs"`
	Database   string  `json:"database"`
	Collection string  `json:"collection"`
}
