package fixtures

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/raysh454/probe/internal/logging"
)

const uploadPath = "/upload"

// maxUploadMemory bounds the in-memory part of a multipart upload.
const maxUploadMemory = 8 << 20

const pageLayout = `<!DOCTYPE html>
<html class="no-js" lang="en">
<head>
  <meta charset="utf-8">
  <title>The Internet</title>
  <style>
    #drag-drop-upload { border: 2px dashed #c00; min-height: 120px; margin-top: 1em; padding: 0.5em; }
    .dz-preview { display: inline-block; margin: 0.25em; }
  </style>
</head>
<body>
  <div class="row">
    <div id="content" class="large-12 columns">
{{template "content" .}}
    </div>
  </div>
  <div id="page-footer" class="row">
    <hr>
    <div style="text-align: center;">Powered by <a target="_blank" href="http://elementalselenium.com/">Elemental Selenium</a></div>
  </div>
</body>
</html>
`

const uploadForm = `{{define "content"}}
      <div class="example">
        <h3>File Uploader</h3>
        <p>Choose a file on your system and then click upload. Or, drag and drop a file into the area below.</p>
        <form id="upload-form" method="POST" enctype="multipart/form-data" action="/upload">
          <input id="file-upload" type="file" name="file">
          <br>
          <input id="file-submit" class="button" type="submit" value="Upload">
        </form>
        <br>
        <div id="drag-drop-upload" class="dz-success-mark dz-clickable">
{{- if .DropZoneInput}}
          <input type="file" name="file" form="upload-form" style="display: none;">
{{- end}}
        </div>
      </div>
{{- if .DropZoneInput}}
      <script>
        (function () {
          var zone = document.getElementById("drag-drop-upload");
          var input = zone.querySelector("input[type=file]");
          zone.addEventListener("click", function (e) { if (e.target === zone) input.click(); });
          input.addEventListener("change", function () {
            zone.querySelectorAll(".dz-preview").forEach(function (el) { el.remove(); });
            Array.prototype.forEach.call(input.files, function (f) {
              var preview = document.createElement("div");
              preview.className = "dz-preview dz-file-preview";
              var name = document.createElement("span");
              name.className = "dz-filename";
              name.textContent = f.name;
              preview.appendChild(name);
              zone.appendChild(preview);
            });
          });
        })();
      </script>
{{- end}}
{{end}}`

const uploadResult = `{{define "content"}}
      <div class="example">
        <h3>File Uploaded!</h3>
        <div id="uploaded-files" class="panel text-center">
          {{.FileName}}
        </div>
      </div>
{{end}}`

var (
	uploadFormTmpl   = template.Must(template.Must(template.New("layout").Parse(pageLayout)).Parse(uploadForm))
	uploadResultTmpl = template.Must(template.Must(template.New("layout").Parse(pageLayout)).Parse(uploadResult))
)

var errNoFile = errors.New("no file in upload")

func (s *Server) mountUpload() {
	s.router.Get(uploadPath, s.handleUploadPage)
	s.router.Post(uploadPath, s.handleUpload)
}

func render(t *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	body, err := render(uploadFormTmpl, struct{ DropZoneInput bool }{s.cfg.DropZoneInput})
	if err != nil {
		s.logger.Error("render upload page", logging.Err(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

// handleUpload accepts the first non-empty "file" part. A submit without a
// file fails with a bare 500, as the live page does.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	name, err := uploadedFileName(r)
	if err != nil {
		s.logger.Warn("upload rejected", logging.Err(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.logger.Info("file uploaded", logging.Field{Key: "file", Value: name})

	body, err := render(uploadResultTmpl, struct{ FileName string }{name})
	if err != nil {
		s.logger.Error("render upload result", logging.Err(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

func uploadedFileName(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return "", err
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()
	for _, fh := range r.MultipartForm.File["file"] {
		if fh.Filename != "" {
			return fh.Filename, nil
		}
	}
	return "", errNoFile
}
