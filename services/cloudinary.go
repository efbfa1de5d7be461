package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const receiptFolder = "receipts"

// CloudinaryService stores rendered receipts as raw Cloudinary resources.
type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryService(cloudinaryURL string) (*CloudinaryService, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary URL is required")
	}

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	log.Printf("Cloudinary initialized for cloud %s", cld.Config.Cloud.CloudName)
	return &CloudinaryService{cld: cld}, nil
}

// UploadReceipt uploads a receipt document under receipts/<name> and returns
// its https URL.
func (cs *CloudinaryService) UploadReceipt(ctx context.Context, name string, data []byte) (string, error) {
	result, err := cs.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     name,
		Folder:       receiptFolder,
		Overwrite:    &[]bool{false}[0],
		ResourceType: "raw",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload receipt: %s", result.Error.Message)
	}

	if result.SecureURL != "" {
		return forceHTTPS(result.SecureURL), nil
	}
	return forceHTTPS(result.URL), nil
}

// forceHTTPS ensures Cloudinary URLs use https scheme
func forceHTTPS(in string) string {
	if in == "" {
		return in
	}
	out := strings.TrimSpace(in)
	return strings.Replace(out, "http://", "https://", 1)
}
