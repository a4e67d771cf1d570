package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxImageSize = 5 << 20

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// uploadStorage writes product images under root/uploads/products and
// serves them back as /uploads/products/<file>.
type uploadStorage struct {
	root string
}

func (s uploadStorage) dir() string {
	return filepath.Join(s.root, "uploads", "products")
}

// saveImage stores file under a fresh object-id name and returns its
// public URL path.
func (s uploadStorage) saveImage(file *multipart.FileHeader) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if extension == "" {
		return "", fmt.Errorf("image file extension is required")
	}
	if _, ok := allowedImageExtensions[extension]; !ok {
		return "", fmt.Errorf("unsupported image type: %s", extension)
	}
	if file.Size > maxImageSize {
		return "", fmt.Errorf("image file too large (max 5MB)")
	}

	if err := os.MkdirAll(s.dir(), 0o755); err != nil {
		return "", err
	}

	filename := primitive.NewObjectID().Hex() + extension
	out, err := os.Create(filepath.Join(s.dir(), filename))
	if err != nil {
		return "", err
	}
	defer out.Close()

	in, err := file.Open()
	if err != nil {
		return "", err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", err
	}

	return "/" + path.Join("uploads", "products", filename), nil
}

// safeDeleteUpload removes a previously uploaded image. Paths outside
// uploads/ are refused; images that are already gone are not an error.
func (s uploadStorage) safeDeleteUpload(relPath string) error {
	trimmed := strings.TrimSpace(relPath)
	if trimmed == "" {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	cleanRel = strings.TrimPrefix(cleanRel, "/")

	if !strings.HasPrefix(cleanRel, "uploads/") {
		return fmt.Errorf("refusing to delete non-upload path: %s", relPath)
	}

	cleanBase := filepath.Clean(s.root)
	cleanTarget := filepath.Clean(filepath.Join(cleanBase, filepath.FromSlash(cleanRel)))
	if cleanTarget != cleanBase && !strings.HasPrefix(cleanTarget, cleanBase+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside public root: %s", relPath)
	}

	if err := os.Remove(cleanTarget); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

func isUploadedImage(p string) bool {
	return strings.HasPrefix(strings.TrimPrefix(strings.TrimSpace(p), "/"), "uploads/")
}
