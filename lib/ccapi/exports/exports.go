package exports

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ccapi/lib/ccapi/core"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("ccapi/lib/ccapi/exports")

type Client struct {
	core *core.Client
}

func NewClient(c *core.Client) *Client {
	return &Client{core: c}
}

type Export struct {
	ID       int
	Filename string
	// "Complete" once the file can be downloaded
	Status    string
	Requested time.Time
}

func (e Export) Complete() bool {
	return strings.EqualFold(e.Status, "complete")
}

// RequestProductExport queues an export of the given columns for every
// product in rangeIDs and returns the export's ID.
func (c *Client) RequestProductExport(ctx context.Context, rangeIDs []int, fields []string) (int, error) {
	ctx, span := tracer.Start(ctx, "client:RequestProductExport")
	defer span.End()

	if len(rangeIDs) == 0 || len(fields) == 0 {
		err := fmt.Errorf("an export needs at least one range and one field")
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	form := c.core.NewForm()
	form.Set("RangeIDs", core.JoinIDs(rangeIDs))
	form.Set("Fields", core.JoinRecord(fields...))
	res, err := c.core.Post(ctx, "/Handlers/Export/RequestProductExport.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to request export")
		return 0, err
	}
	id, err := core.ExpectID("RequestProductExport", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "export was not queued")
		return 0, err
	}
	return id, nil
}

func parseExport(line string) (Export, error) {
	fields := core.SplitRecord(line)
	if len(fields) < 4 {
		return Export{}, fmt.Errorf("expected 4 fields in export record '%s'", line)
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return Export{}, fmt.Errorf("invalid export id in '%s': %w", line, err)
	}
	requested, err := core.ParseDisplayDate(fields[3])
	if err != nil {
		return Export{}, fmt.Errorf("invalid export date in '%s': %w", line, err)
	}
	return Export{
		ID:        id,
		Filename:  fields[1],
		Status:    fields[2],
		Requested: requested,
	}, nil
}

// Exports lists previously requested exports, one "^^" record per line.
func (c *Client) Exports(ctx context.Context) ([]Export, error) {
	ctx, span := tracer.Start(ctx, "client:Exports")
	defer span.End()

	form := c.core.NewForm()
	res, err := c.core.Post(ctx, "/Handlers/Export/GetExports.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch exports")
		return nil, err
	}

	var exports []Export
	for _, line := range strings.Split(core.Text(res), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		export, err := parseExport(line)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse export")
			return nil, err
		}
		exports = append(exports, export)
	}
	return exports, nil
}

// Download fetches the file produced by a completed export.
func (c *Client) Download(ctx context.Context, exportID int) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "client:Download")
	defer span.End()
	span.SetAttributes(attribute.Int("export_id", exportID))

	res, err := c.core.Get(ctx, "/Export/Download.ashx", url.Values{
		"id": {strconv.Itoa(exportID)},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to download export")
		return nil, err
	}
	if len(res.Body()) == 0 {
		err = &core.HandlerError{Handler: "Download", Message: fmt.Sprintf("export %d is empty", exportID)}
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty export")
		return nil, err
	}
	return res.Body(), nil
}
