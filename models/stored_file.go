package models

// StoredFile describes an uploaded file persisted on local disk. StoredName
// is generated once and never changes; the file it names is removed when the
// owning record drops or replaces the reference.
type StoredFile struct {
	OriginalName string `bson:"originalName" json:"originalName"`
	StoredName   string `bson:"storedName" json:"storedName"`
	MimeType     string `bson:"mimeType" json:"mimeType"`
	SizeBytes    int64  `bson:"sizeBytes" json:"sizeBytes"`
}
