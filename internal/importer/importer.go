package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

type ProductWriter interface {
	CreateBatch(ctx context.Context, products []domain.Product) (int, error)
}

// ImageImporter generates sample catalogue products from the image files of a directory.
type ImageImporter struct {
	fsys   fs.FS
	writer ProductWriter
	rng    *rand.Rand
	now    func() time.Time
	logger *zap.Logger
}

func NewImageImporter(fsys fs.FS, writer ProductWriter, rng *rand.Rand, logger *zap.Logger) *ImageImporter {
	return &ImageImporter{
		fsys:   fsys,
		writer: writer,
		rng:    rng,
		now:    time.Now,
		logger: logging.OrNop(logger),
	}
}

// Plan lists the image files and classifies each one without writing anything. Files whose
// product does not validate, such as a name made only of digits, are skipped.
func (i *ImageImporter) Plan() ([]domain.Product, error) {
	entries, err := fs.ReadDir(i.fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			i.logger.Warn("image directory not found")
			return nil, nil
		}
		return nil, fmt.Errorf("read image directory: %w", err)
	}

	today := i.now()
	var products []domain.Product
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(path.Ext(e.Name()))] {
			continue
		}
		p := Classify(e.Name(), i.rng, today)
		if err := p.Validate(); err != nil {
			i.logger.Warn("skipping image", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// Run classifies every image and stores the resulting products in one batch.
func (i *ImageImporter) Run(ctx context.Context) (int, error) {
	products, err := i.Plan()
	if err != nil {
		return 0, err
	}
	if len(products) == 0 {
		i.logger.Info("no images to import")
		return 0, nil
	}
	n, err := i.writer.CreateBatch(ctx, products)
	if err != nil {
		return 0, fmt.Errorf("store products: %w", err)
	}
	i.logger.Info("products generated", zap.Int("count", n))
	return n, nil
}
