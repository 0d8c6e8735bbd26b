// Package reports archives cross reports as immutable blob artifacts.
package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"morphcore/internal/blob"
	"morphcore/internal/core"
	"morphcore/pkg/domain"
	"morphcore/pkg/genetics"
)

// Format names an artifact encoding.
type Format string

// Supported artifact formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

const keyPrefix = "reports/"

var (
	// ErrNotFound is returned when no artifact exists for a report id.
	ErrNotFound = errors.New("report not found")
	// ErrInvalidID is returned for ids that are not UUIDs.
	ErrInvalidID = errors.New("invalid report id")
	// ErrUnsupportedFormat is returned for formats other than json and csv.
	ErrUnsupportedFormat = errors.New("unsupported report format")
)

// csvHeader lists the CSV columns in order.
var csvHeader = []string{"phenotype", "percent", "fraction", "probability", "genotype"}

// Artifact describes one stored rendering of a report.
type Artifact struct {
	Format      Format    `json:"format"`
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	ETag        string    `json:"etag,omitempty"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Record lists the artifacts archived under one report id.
type Record struct {
	ID        string         `json:"id"`
	Species   domain.Species `json:"species,omitempty"`
	Artifacts []Artifact     `json:"artifacts"`
}

// Archiver writes reports into a blob store.
type Archiver struct {
	store  blob.Store
	expiry time.Duration
	newID  func() string
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithURLExpiry sets the lifetime of presigned artifact URLs.
func WithURLExpiry(d time.Duration) Option {
	return func(a *Archiver) {
		if d > 0 {
			a.expiry = d
		}
	}
}

// WithIDGenerator overrides uuid.NewString.
func WithIDGenerator(fn func() string) Option {
	return func(a *Archiver) {
		if fn != nil {
			a.newID = fn
		}
	}
}

// NewArchiver constructs an archiver over store.
func NewArchiver(store blob.Store, opts ...Option) *Archiver {
	a := &Archiver{store: store, expiry: blob.DefaultURLExpiry, newID: uuid.NewString}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type rendered struct {
	format      Format
	contentType string
	payload     []byte
}

// Archive stores the JSON and CSV renderings of report under a fresh id.
func (a *Archiver) Archive(ctx context.Context, report core.CrossReport) (Record, error) {
	id := a.newID()
	if _, err := uuid.Parse(id); err != nil {
		return Record{}, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	record := Record{ID: id, Species: report.Species}
	for _, format := range []Format{FormatJSON, FormatCSV} {
		r, err := render(format, report)
		if err != nil {
			return Record{}, err
		}
		info, err := a.store.Put(ctx, artifactKey(id, format), bytes.NewReader(r.payload), blob.PutOptions{
			ContentType: r.contentType,
			Metadata: map[string]string{
				"species": string(report.Species),
				"rows":    strconv.Itoa(len(report.Rows)),
			},
		})
		if err != nil {
			return Record{}, fmt.Errorf("store %s artifact: %w", format, err)
		}
		artifact := toArtifact(format, info)
		if artifact.ContentType == "" {
			artifact.ContentType = r.contentType
		}
		if artifact.SizeBytes == 0 {
			artifact.SizeBytes = int64(len(r.payload))
		}
		artifact.URL = a.presign(ctx, artifact.Key, info.URL)
		record.Artifacts = append(record.Artifacts, artifact)
	}
	return record, nil
}

// Lookup lists the artifacts stored for id.
func (a *Archiver) Lookup(ctx context.Context, id string) (Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Record{}, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	infos, err := a.store.List(ctx, keyPrefix+id+"/")
	if err != nil {
		return Record{}, fmt.Errorf("list report %s: %w", id, err)
	}
	record := Record{ID: id}
	for _, info := range infos {
		format, ok := formatFromKey(info.Key)
		if !ok {
			continue
		}
		if record.Species == "" {
			record.Species = domain.Species(info.Metadata["species"])
		}
		artifact := toArtifact(format, info)
		artifact.URL = a.presign(ctx, artifact.Key, info.URL)
		record.Artifacts = append(record.Artifacts, artifact)
	}
	if len(record.Artifacts) == 0 {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	sort.Slice(record.Artifacts, func(i, j int) bool { return record.Artifacts[i].Format < record.Artifacts[j].Format })
	return record, nil
}

// Open streams one artifact. Callers close the reader.
func (a *Archiver) Open(ctx context.Context, id string, format Format) (Artifact, io.ReadCloser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Artifact{}, nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	if format != FormatJSON && format != FormatCSV {
		return Artifact{}, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	info, rc, err := a.store.Get(ctx, artifactKey(id, format))
	if errors.Is(err, blob.ErrNotFound) {
		return Artifact{}, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Artifact{}, nil, fmt.Errorf("open report %s: %w", id, err)
	}
	return toArtifact(format, info), rc, nil
}

func (a *Archiver) presign(ctx context.Context, key, fallback string) string {
	url, err := a.store.PresignURL(ctx, key, blob.SignedURLOptions{Method: "GET", Expiry: a.expiry})
	if err != nil {
		return fallback
	}
	return url
}

func artifactKey(id string, format Format) string {
	return keyPrefix + id + "/cross." + string(format)
}

func formatFromKey(key string) (Format, bool) {
	switch {
	case strings.HasSuffix(key, "/cross.json"):
		return FormatJSON, true
	case strings.HasSuffix(key, "/cross.csv"):
		return FormatCSV, true
	default:
		return "", false
	}
}

func toArtifact(format Format, info blob.Info) Artifact {
	return Artifact{
		Format:      format,
		Key:         info.Key,
		ContentType: info.ContentType,
		SizeBytes:   info.Size,
		ETag:        info.ETag,
		CreatedAt:   info.LastModified,
	}
}

func render(format Format, report core.CrossReport) (rendered, error) {
	switch format {
	case FormatJSON:
		payload, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return rendered{}, fmt.Errorf("marshal json: %w", err)
		}
		return rendered{format: format, contentType: "application/json", payload: payload}, nil
	case FormatCSV:
		buf := &bytes.Buffer{}
		writer := csv.NewWriter(buf)
		if err := writer.Write(csvHeader); err != nil {
			return rendered{}, err
		}
		for _, row := range report.Rows {
			record := []string{
				row.Phenotype,
				row.Percent,
				row.Fraction,
				strconv.FormatFloat(row.Probability, 'g', -1, 64),
				genotypeText(row.Genotype),
			}
			if err := writer.Write(record); err != nil {
				return rendered{}, err
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return rendered{}, err
		}
		return rendered{format: format, contentType: "text/csv", payload: buf.Bytes()}, nil
	default:
		return rendered{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// genotypeText joins the carried labels of a representative genotype,
// e.g. "Pastel; Het Albino". Wild-type loci are skipped.
func genotypeText(genes []domain.GeneEntry) string {
	labels := make([]string, 0, len(genes))
	for _, g := range genes {
		if g.Copies == 0 {
			continue
		}
		label := g.Label
		if label == "" {
			label = genetics.GenotypeLabel(domain.Locus{Name: g.Locus, Mode: g.Mode}, g.Copies)
		}
		labels = append(labels, label)
	}
	return strings.Join(labels, "; ")
}
