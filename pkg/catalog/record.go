package catalog

// SourceRecord is a raw (title ID, name, region) triple as extracted from
// one upstream catalog's native document format. Records are transient:
// they exist only between extraction and normalization, and malformed ones
// are silently dropped along the way.
type SourceRecord struct {
	TitleID string
	Name    string
	Region  string
	Demo    bool
}
