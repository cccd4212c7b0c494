// File: internal/services/storage/config.go
package storage

import "fmt"

type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string

	// One bucket per coarse file type, so image and csv blobs stay apart.
	ImageBucket string
	CSVBucket   string
}

func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("S3_ENDPOINT is required")
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return fmt.Errorf("S3 credentials are required")
	}
	if c.ImageBucket == "" || c.CSVBucket == "" {
		return fmt.Errorf("S3 bucket names are required")
	}
	return nil
}
