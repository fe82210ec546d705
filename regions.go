package insights

// Region represents a Langfuse cloud region.
type Region string

// Region constants.
const (
	// RegionEU is the European cloud region.
	RegionEU Region = "eu"
	// RegionUS is the US cloud region.
	RegionUS Region = "us"
	// RegionHIPAA is the HIPAA-compliant US region.
	RegionHIPAA Region = "hipaa"
)

// regionBaseURLs maps regions to their public API base URLs.
var regionBaseURLs = map[Region]string{
	RegionEU:    "https://cloud.langfuse.com/api/public",
	RegionUS:    "https://us.cloud.langfuse.com/api/public",
	RegionHIPAA: "https://hipaa.cloud.langfuse.com/api/public",
}
