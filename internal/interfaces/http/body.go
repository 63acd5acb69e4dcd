package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
)

// parseValues lee el cuerpo de un formulario. Acepta JSON o multipart (este
// último necesario para los campos file). Los números JSON se conservan como
// json.Number para no perder precisión en importes.
func parseValues(c *fiber.Ctx, res *schema.Resource) (schema.Values, error) {
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return parseMultipart(c, res)
	}
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return schema.Values{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var values schema.Values
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("%w: cuerpo JSON inválido", domain.ErrInvalidInput)
	}
	if values == nil {
		values = schema.Values{}
	}
	return values, nil
}

func parseMultipart(c *fiber.Ctx, res *schema.Resource) (schema.Values, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("%w: formulario multipart inválido", domain.ErrInvalidInput)
	}
	files := make(map[string]*schema.FileValue, len(form.File))
	for name, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		fv, err := readFile(headers[0])
		if err != nil {
			return nil, err
		}
		files[name] = fv
	}
	return schema.FromForm(res.FormFields(), form.Value, files), nil
}

func readFile(h *multipart.FileHeader) (*schema.FileValue, error) {
	f, err := h.Open()
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", h.Filename, err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", h.Filename, err)
	}
	return &schema.FileValue{
		Filename:    h.Filename,
		ContentType: h.Header.Get(fiber.HeaderContentType),
		Size:        h.Size,
		Content:     content,
	}, nil
}
