// Package schema has the domain models, constants and errors shared by every part of phasma.
package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the relational backend for the primary store.
	DatabaseBackend string

	// Channel names one of the spectrometers on a device.
	Channel string

	// Sensor names a classifier input, including the fused one.
	Sensor string

	// UserType categorizes platform users for statistics.
	UserType string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All primary store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
)

// Spectrometer channels.
const (
	VIS  Channel = "VIS"
	NIR  Channel = "NIR"
	FLUO Channel = "FLUO"
)

// Classifier sensors.
const (
	SensorVIS    Sensor = "VIS"
	SensorNIR    Sensor = "NIR"
	SensorFLUO   Sensor = "FLUO"
	SensorFusion Sensor = "FUSION"
)

// User categories.
const (
	ExpertUser UserType = "expert"
	BasicUser  UserType = "basic"
)

// Series kinds found inside a channel payload.
const (
	RawData        = "rawData"
	RawDark        = "rawDark"
	RawWhite       = "rawWhite"
	AvgData        = "avgData"
	AvgDark        = "avgDark"
	AvgWhite       = "avgWhite"
	Preprocessed   = "preprocessed"
	DarkReference  = "darkReference"
	WhiteReference = "whiteReference"
)

// Use case labels carried by measurements.
const (
	MycotoxinsDetection = "Mycotoxins detection"
	FoodSpoilage        = "Food spoilage"
	FoodAdulteration    = "Food adulteration"
	WhiteReferenceCase  = "White Reference"
	TestUseCase         = "test"
)

// Operation labels sent by the mobile application.
const (
	AnalyzeOperation = "analyze"
	StoreOperation   = "store"
)

// NotAvailable is the placeholder outcome of a sensor that produced no prediction.
const NotAvailable = "N/A"

// AllChannels lists channels in document order.
var AllChannels = []Channel{VIS, NIR, FLUO}

// AllSensors lists classifier sensors in result order.
var AllSensors = []Sensor{SensorVIS, SensorNIR, SensorFLUO, SensorFusion}

// ReplicateKinds lists the series kinds that hold replicate sets.
var ReplicateKinds = []string{RawData, RawDark, RawWhite}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid primary store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// AverageKind returns the aggregate series kind for a replicate kind,
// e.g. rawData becomes avgData.
func AverageKind(rawKind string) string {
	if len(rawKind) > 3 && rawKind[:3] == "raw" {
		return "avg" + rawKind[3:]
	}
	return "avg" + rawKind
}
