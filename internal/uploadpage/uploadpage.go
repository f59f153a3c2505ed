// Package uploadpage is the page object for the file upload page. It owns
// the selectors and texts the scenarios rely on and the single branch point
// of the page: whether the drop zone carries its own file input.
package uploadpage

import (
	"context"
	"fmt"
	"strings"

	"github.com/raysh454/probe/internal/browser"
)

// DropZone is the outcome of probing the drop zone once per test case.
type DropZone int

const (
	// WithoutHiddenInput: the drop zone has no file input of its own, so
	// it can only be checked for presence.
	WithoutHiddenInput DropZone = iota
	// WithHiddenInput: files can be set directly on the drop zone.
	WithHiddenInput
)

func (d DropZone) String() string {
	switch d {
	case WithHiddenInput:
		return "with hidden input"
	case WithoutHiddenInput:
		return "without hidden input"
	default:
		return fmt.Sprintf("DropZone(%d)", int(d))
	}
}

// UploadPage wraps a browser page showing the upload page.
type UploadPage struct {
	page *browser.Page
	url  string
}

// Open navigates page to url and returns the page object.
func Open(ctx context.Context, page *browser.Page, url string) (*UploadPage, error) {
	if err := page.Goto(ctx, url); err != nil {
		return nil, err
	}
	return &UploadPage{page: page, url: url}, nil
}

// Page returns the underlying browser page.
func (u *UploadPage) Page() *browser.Page { return u.page }

// URL is the address the page object was opened at.
func (u *UploadPage) URL() string { return u.url }

func (u *UploadPage) Heading() *browser.Locator {
	return u.page.Locator(HeadingSelector).WithText(HeadingText)
}

func (u *UploadPage) SuccessHeading() *browser.Locator {
	return u.page.Locator(HeadingSelector).WithText(SuccessHeadingText)
}

func (u *UploadPage) Description() *browser.Locator  { return u.page.GetByText(DescriptionText) }
func (u *UploadPage) DragDropHint() *browser.Locator { return u.page.GetByText(DragDropText) }
func (u *UploadPage) PoweredBy() *browser.Locator    { return u.page.GetByText(PoweredByText) }

func (u *UploadPage) FileInput() *browser.Locator     { return u.page.Locator(FileInputSelector) }
func (u *UploadPage) SubmitButton() *browser.Locator  { return u.page.Locator(SubmitSelector) }
func (u *UploadPage) DropZone() *browser.Locator      { return u.page.Locator(DropZoneSelector) }
func (u *UploadPage) DropZoneInput() *browser.Locator { return u.page.Locator(DropZoneInputSelector) }
func (u *UploadPage) DroppedFile() *browser.Locator   { return u.page.Locator(DroppedFileSelector) }
func (u *UploadPage) UploadedFiles() *browser.Locator { return u.page.Locator(UploadedFilesSelector) }

func (u *UploadPage) FooterLink() *browser.Locator {
	return u.page.Locator(FooterLinkSelector).WithText(FooterLinkText)
}

// ProbeDropZone decides which drop zone variant the page has.
func (u *UploadPage) ProbeDropZone(ctx context.Context) (DropZone, error) {
	n, err := u.DropZoneInput().Count(ctx)
	if err != nil {
		return WithoutHiddenInput, fmt.Errorf("probe drop zone: %w", err)
	}
	if n > 0 {
		return WithHiddenInput, nil
	}
	return WithoutHiddenInput, nil
}

// ChooseFile selects path on the main file input.
func (u *UploadPage) ChooseFile(ctx context.Context, path string) error {
	return u.FileInput().SetInputFiles(ctx, path)
}

// DropFile selects path on the drop zone's own input. It fails with
// browser.ErrNotFound on the variant without one.
func (u *UploadPage) DropFile(ctx context.Context, path string) error {
	return u.DropZoneInput().SetInputFiles(ctx, path)
}

// Submit clicks the upload button and waits for the network to settle.
func (u *UploadPage) Submit(ctx context.Context) error {
	if err := u.SubmitButton().Click(ctx); err != nil {
		return err
	}
	return u.page.WaitForNetworkIdle(ctx)
}

// UploadedFileName is the trimmed text of the result panel.
func (u *UploadPage) UploadedFileName(ctx context.Context) (string, error) {
	text, err := u.UploadedFiles().Text(ctx)
	return strings.TrimSpace(text), err
}

// Headings returns the trimmed texts of all h1-h4 elements.
func (u *UploadPage) Headings(ctx context.Context) ([]string, error) {
	texts, err := u.page.Locator(AllHeadingsSelector).AllTexts(ctx)
	if err != nil {
		return nil, err
	}
	out := texts[:0]
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}
