package uploadpage

// Path of the upload page relative to the site root.
const Path = "/upload"

// Texts the page is expected to show.
const (
	Title              = "The Internet"
	HeadingText        = "File Uploader"
	SuccessHeadingText = "File Uploaded!"
	DescriptionText    = "Choose a file on your system and then click upload"
	DragDropText       = "Or, drag and drop a file into the area below"
	PoweredByText      = "Powered by"
	ServerErrorText    = "Internal Server Error"
)

// Footer link contract.
const (
	FooterLinkText   = "Elemental Selenium"
	FooterLinkHref   = "http://elementalselenium.com/"
	FooterLinkTarget = "_blank"
)

// DropZoneClassPrefix is carried by every class the drop zone library adds.
const DropZoneClassPrefix = "dz-"

// CSS selectors.
const (
	HeadingSelector       = "h3"
	AllHeadingsSelector   = "h1, h2, h3, h4"
	FileInputSelector     = "#file-upload"
	SubmitSelector        = "#file-submit"
	DropZoneSelector      = "#drag-drop-upload"
	DropZoneInputSelector = `#drag-drop-upload input[type="file"]`
	DroppedFileSelector   = "#drag-drop-upload .dz-filename, #drag-drop-upload .dz-name"
	UploadedFilesSelector = "#uploaded-files"
	FooterLinkSelector    = "a"
)
