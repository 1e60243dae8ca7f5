package model

// ProcessedImage is the transient result of a pipeline run: the locally
// saved filename plus the public URL of the stored object.
type ProcessedImage struct {
	Filename string
	URL      string
}
