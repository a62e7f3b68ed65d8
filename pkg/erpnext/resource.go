package erpnext

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// ResourceClient runs operations against one document type.
type ResourceClient struct {
	client   *ERPNext
	resource Resource
}

// Resource returns a ResourceClient for the named document type, configured
// from the resource table.
func (e *ERPNext) Resource(name string) *ResourceClient {
	return &ResourceClient{client: e, resource: LookupResource(name)}
}

// Name returns the document type name.
func (r *ResourceClient) Name() string {
	return r.resource.Name
}

// Create inserts a new document and returns it as stored by the server.
// A nil record with a nil error is returned when the failure is one the
// resource treats as soft (an existing Sales Invoice, for example).
func (r *ResourceClient) Create(ctx context.Context, rec Record) (Record, error) {
	if rec == nil {
		rec = Record{}
	}
	env, err := r.client.Execute(ctx, Operation{
		Method:   http.MethodPost,
		Resource: r.resource.Name,
		Payload:  rec,
	})
	if err != nil {
		if r.resource.softOnCreate(err) {
			r.client.logger.Info("Create treated as no-op",
				zap.String("resource", r.resource.Name),
				zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return decodeRecord(r.resource.Name, env.Data)
}

// Update overwrites the given fields of the named document.
func (r *ResourceClient) Update(ctx context.Context, name string, rec Record) (Record, error) {
	if name == "" {
		return nil, fmt.Errorf("%s name is required", r.resource.Name)
	}
	if rec == nil {
		rec = Record{}
	}
	env, err := r.client.Execute(ctx, Operation{
		Method:   http.MethodPut,
		Resource: r.resource.Name,
		Name:     name,
		Payload:  rec,
	})
	if err != nil {
		return nil, err
	}
	return decodeRecord(r.resource.Name, env.Data)
}

// Get fetches a document by name. A missing document yields (nil, nil).
func (r *ResourceClient) Get(ctx context.Context, name string) (Record, error) {
	if name == "" {
		return nil, fmt.Errorf("%s name is required", r.resource.Name)
	}
	env, err := r.client.Execute(ctx, Operation{
		Method:   http.MethodGet,
		Resource: r.resource.Name,
		Name:     name,
	})
	if err != nil {
		if IsKind(err, KindNotFound) {
			r.client.logger.Debug("Document not found",
				zap.String("resource", r.resource.Name),
				zap.String("name", name))
			return nil, nil
		}
		return nil, err
	}
	return decodeRecord(r.resource.Name, env.Data)
}

// Delete removes the named document.
func (r *ResourceClient) Delete(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("%s name is required", r.resource.Name)
	}
	_, err := r.client.Execute(ctx, Operation{
		Method:   http.MethodDelete,
		Resource: r.resource.Name,
		Name:     name,
	})
	return err
}

// List returns one page of documents. Without Fields the server returns only
// the name of each document.
func (r *ResourceClient) List(ctx context.Context, opts ListOptions) ([]Record, error) {
	env, err := r.client.Execute(ctx, Operation{
		Method:   http.MethodGet,
		Resource: r.resource.Name,
		Query:    &opts,
	})
	if err != nil {
		return nil, err
	}
	return decodeRecords(r.resource.Name, env.Data)
}

// Find lists the documents matching filters. A 404 yields an empty result.
func (r *ResourceClient) Find(ctx context.Context, filters []Filter, fields ...string) ([]Record, error) {
	records, err := r.List(ctx, ListOptions{Filters: filters, Fields: fields})
	if err != nil {
		if IsKind(err, KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return records, nil
}

// FindOne returns the first document matching filters, or nil when there is
// none.
func (r *ResourceClient) FindOne(ctx context.Context, filters []Filter, fields ...string) (Record, error) {
	records, err := r.Find(ctx, filters, fields...)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// GetAll lists documents and fetches each one in full. The fetches run
// concurrently; the first failure cancels the rest and GetAll returns no
// records. Documents deleted between the list and the fetch are skipped.
//
// Only the filter, order and paging settings of opts are used. opts.Fields
// is ignored: the list asks for names only and every record comes back with
// all of its fields.
func (r *ResourceClient) GetAll(ctx context.Context, opts ListOptions) ([]Record, error) {
	opts.Fields = []string{"name"}
	summaries, err := r.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.resource.Name, err)
	}

	names := make([]string, len(summaries))
	for i, summary := range summaries {
		name, ok := summary["name"].(string)
		if !ok || name == "" {
			return nil, &Error{
				Kind:    KindDecode,
				Message: fmt.Sprintf("%s list entry %d has no name", r.resource.Name, i),
			}
		}
		names[i] = name
	}

	r.client.logger.Info("Fetching documents",
		zap.String("resource", r.resource.Name),
		zap.Int("count", len(names)))

	results := make([]Record, len(names))
	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError().WithFirstError()
	for i, name := range names {
		p.Go(func(ctx context.Context) error {
			rec, err := r.Get(ctx, name)
			if err != nil {
				r.client.logger.Error("Failed to fetch document",
					zap.String("resource", r.resource.Name),
					zap.String("name", name),
					zap.Error(err))
				return fmt.Errorf("failed to fetch %s %q: %w", r.resource.Name, name, err)
			}
			results[i] = rec
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(results))
	for _, rec := range results {
		if rec != nil {
			records = append(records, rec)
		}
	}
	return records, nil
}
