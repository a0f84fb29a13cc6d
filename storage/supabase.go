package storage

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	supa "github.com/supabase-community/supabase-go"
)

// Supabase Storage holds experience images. Configure via SUPABASE_URL,
// SUPABASE_SERVICE_KEY and SUPABASE_BUCKET (defaults to "experience-images").
var Supabase *supa.Client

func InitializeSupabase() {
	url := os.Getenv("SUPABASE_URL")
	key := os.Getenv("SUPABASE_SERVICE_KEY")
	if url == "" || key == "" {
		logrus.Warn("SUPABASE_URL / SUPABASE_SERVICE_KEY not set, image upload disabled")
		return
	}

	client, err := supa.NewClient(url, key, nil)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create supabase client")
	}
	Supabase = client
	logrus.Info("supabase storage initialized")
}

func bucketName() string {
	if b := os.Getenv("SUPABASE_BUCKET"); b != "" {
		return b
	}
	return "experience-images"
}

// UploadBase64Image stores a base64 (optionally data-URL prefixed) image in
// the bucket under the given object name and returns its public URL, or ""
// on failure.
func UploadBase64Image(base64Src string, name string) string {
	if Supabase == nil || base64Src == "" {
		return ""
	}

	payload := base64Src
	if i := strings.Index(payload, ","); i != -1 {
		payload = payload[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		logrus.WithError(err).Error("invalid base64 image")
		return ""
	}

	path := name
	if path == "" {
		path = fmt.Sprintf("img-%d.jpg", time.Now().UnixNano())
	}

	if _, err := Supabase.Storage.UploadFile(bucketName(), path, bytes.NewReader(raw)); err != nil {
		logrus.WithError(err).Error("supabase upload failed")
		return ""
	}

	return Supabase.Storage.GetPublicUrl(bucketName(), path).SignedURL
}

// DeleteImage removes a previously uploaded object by its path inside the
// bucket. Best-effort: failures are logged, not propagated.
func DeleteImage(path string) bool {
	if Supabase == nil || path == "" {
		return false
	}
	if _, err := Supabase.Storage.RemoveFile(bucketName(), []string{path}); err != nil {
		logrus.WithError(err).Error("supabase delete failed")
		return false
	}
	return true
}
