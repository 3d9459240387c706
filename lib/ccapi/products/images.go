package products

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"ccapi/lib/ccapi/core"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Image struct {
	ID  int
	URL string
}

// GetImages scrapes a product's image gallery, images are returned in
// display order.
func (c *Client) GetImages(ctx context.Context, productID int) ([]Image, error) {
	ctx, span := tracer.Start(ctx, "client:GetImages")
	defer span.End()
	span.SetAttributes(attribute.Int("product_id", productID))

	res, err := c.core.Get(ctx, "/Handlers/ProductImages/GetImages.ashx", url.Values{
		"ProductID": {strconv.Itoa(productID)},
		"BrandID":   {strconv.Itoa(c.core.BrandID)},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch images")
		return nil, err
	}
	doc, err := core.Document(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse image gallery")
		return nil, err
	}

	var images []Image
	doc.Find("div.gallery-item[data-imageid]").Each(func(_ int, item *goquery.Selection) {
		id, err := strconv.Atoi(strings.TrimSpace(item.AttrOr("data-imageid", "")))
		if err != nil {
			span.AddEvent("skipped gallery item with invalid id")
			return
		}
		images = append(images, Image{
			ID:  id,
			URL: strings.TrimSpace(item.Find("img").AttrOr("src", "")),
		})
	})
	return images, nil
}

// UploadImage uploads one image and attaches it to every product in
// productIDs.
func (c *Client) UploadImage(ctx context.Context, productIDs []int, filename string, data []byte) (Image, error) {
	ctx, span := tracer.Start(ctx, "client:UploadImage")
	defer span.End()

	form, err := c.productForm(productIDs...)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Image{}, err
	}
	if len(data) == 0 {
		err := fmt.Errorf("image '%s' is empty", filename)
		span.SetStatus(codes.Error, err.Error())
		return Image{}, err
	}

	res, err := c.core.PostMultipart(ctx, "/Handlers/ProductImages/UploadImage.ashx", form, core.Upload{
		Field:    "file",
		Filename: path.Base(filename),
		Contents: data,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upload image")
		return Image{}, err
	}

	fields := core.SplitRecord(core.Text(res))
	if len(fields) < 3 || !strings.EqualFold(fields[0], "success") {
		err = &core.HandlerError{Handler: "UploadImage", Message: core.Text(res)}
		span.RecordError(err)
		span.SetStatus(codes.Error, "image was not uploaded")
		return Image{}, err
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		err = &core.HandlerError{Handler: "UploadImage", Message: core.Text(res)}
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid image id")
		return Image{}, err
	}
	return Image{ID: id, URL: fields[2]}, nil
}

func (c *Client) DeleteImage(ctx context.Context, imageID int) error {
	ctx, span := tracer.Start(ctx, "client:DeleteImage")
	defer span.End()

	form := c.core.NewForm()
	form.Set("ImageID", strconv.Itoa(imageID))
	res, err := c.core.Post(ctx, "/Handlers/ProductImages/DeleteImage.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete image")
		return err
	}
	err = core.ExpectSuccess("DeleteImage", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "image was not deleted")
		return err
	}
	return nil
}

// SetImageOrder reorders a product's images, imageIDs must name every image
// of the product.
func (c *Client) SetImageOrder(ctx context.Context, productID int, imageIDs []int) error {
	ctx, span := tracer.Start(ctx, "client:SetImageOrder")
	defer span.End()

	form, err := c.productForm(productID)
	if err != nil {
		return err
	}
	form.Set("ImageOrder", core.JoinIDs(imageIDs))
	res, err := c.core.Post(ctx, "/Handlers/ProductImages/SetImageOrder.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to order images")
		return err
	}
	err = core.ExpectSuccess("SetImageOrder", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "image order rejected")
		return err
	}
	return nil
}
