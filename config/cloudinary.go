package config

import (
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
)

var Cloudinary *cloudinary.Cloudinary

// ConnectCloudinary initializes the upload client from CLOUDINARY_* env
// vars. Avatar uploads are disabled when the credentials are missing.
func ConnectCloudinary() error {
	cloudName := GetEnv("CLOUDINARY_CLOUD_NAME")
	apiKey := GetEnv("CLOUDINARY_API_KEY")
	apiSecret := GetEnv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return fmt.Errorf("cloudinary credentials not configured")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return err
	}
	Cloudinary = cld
	return nil
}
