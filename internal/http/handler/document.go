package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"schemeagent/internal/model"
	"schemeagent/internal/service"
)

const documentNotFound = "document not found"

// documentID validates the :id path parameter.
func documentID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// ListDocuments returns every document of the user, newest first.
//
//	@Summary	List documents
//	@Tags		documents
//	@Produce	json
//	@Param		userID	path	string	true	"User ID"
//	@Success	200		{array}	model.Document
//	@Router		/users/{userID}/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.List(c.UserContext(), c.Params("userID"))
		if err != nil {
			return writeServiceError(c, err, documentNotFound)
		}
		if docs == nil {
			docs = []model.Document{}
		}
		return c.JSON(docs)
	}
}

// UploadDocument stores a file, extracts and verifies it.
// Form fields: name (document label, optional) and file.
//
//	@Summary	Upload document
//	@Tags		documents
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		userID	path		string	true	"User ID"
//	@Param		name	formData	string	false	"Document name, e.g. Aadhaar Card"
//	@Param		file	formData	file	true	"Document file"
//	@Success	201		{object}	model.Document
//	@Failure	400		{object}	errorPayload
//	@Failure	409		{object}	errorPayload
//	@Router		/users/{userID}/documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := svc.Upload(c.UserContext(), c.Params("userID"), service.UploadInput{
			Name:        c.FormValue("name"),
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			Reader:      f,
		})
		if err != nil {
			return writeServiceError(c, err, documentNotFound)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument returns one document with a temporary download URL.
//
//	@Summary	Get document
//	@Tags		documents
//	@Produce	json
//	@Param		userID	path		string	true	"User ID"
//	@Param		id		path		string	true	"Document ID"
//	@Success	200		{object}	service.DocumentView
//	@Failure	404		{object}	errorPayload
//	@Router		/users/{userID}/documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), c.Params("userID"), id)
		if err != nil {
			return writeServiceError(c, err, documentNotFound)
		}
		return c.JSON(doc)
	}
}

// UpdateDocument applies a manual correction and re-validates the document.
//
//	@Summary	Correct document
//	@Tags		documents
//	@Accept		json
//	@Produce	json
//	@Param		userID	path		string					true	"User ID"
//	@Param		id		path		string					true	"Document ID"
//	@Param		update	body		model.DocumentUpdate	true	"Corrections"
//	@Success	200		{object}	model.Document
//	@Router		/users/{userID}/documents/{id} [put]
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var upd model.DocumentUpdate
		if err := c.BodyParser(&upd); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		doc, err := svc.Update(c.UserContext(), c.Params("userID"), id, upd)
		if err != nil {
			return writeServiceError(c, err, documentNotFound)
		}
		return c.JSON(doc)
	}
}

// ReprocessDocument runs extraction and verification again on the stored file.
//
//	@Summary	Reprocess document
//	@Tags		documents
//	@Produce	json
//	@Param		userID	path		string	true	"User ID"
//	@Param		id		path		string	true	"Document ID"
//	@Success	200		{object}	model.Document
//	@Router		/users/{userID}/documents/{id}/reprocess [post]
func ReprocessDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Reprocess(c.UserContext(), c.Params("userID"), id)
		if err != nil {
			return writeServiceError(c, err, documentNotFound)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes the stored file and the record.
//
//	@Summary	Delete document
//	@Tags		documents
//	@Param		userID	path	string	true	"User ID"
//	@Param		id		path	string	true	"Document ID"
//	@Success	204
//	@Router		/users/{userID}/documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), c.Params("userID"), id); err != nil {
			return writeServiceError(c, err, documentNotFound)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
