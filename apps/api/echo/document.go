package echoapi

import (
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/document"
)

const contextDocumentKey = "object"

type documentApi struct {
	svc *document.Service
}

func registerDocumentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *document.Service) {
	api := documentApi{svc: svc}

	dg := g.Group("/documents", jwt)
	dg.POST("", api.upload)
	dg.GET("", api.query)
	dg.GET("/stats", api.stats)
	dg.GET("/types", api.types)

	// detail endpoints
	og := dg.Group("/:id", api.uploaderOrAdminMiddleware)
	og.GET("", api.retrieve)
	og.GET("/download", api.download)
	og.GET("/url", api.url)
	og.PUT("/status", api.updateStatus, adminMiddleware())
	og.DELETE("", api.destroy)
}

func (api *documentApi) upload(ctx echo.Context) error {
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}

	up := document.Upload{
		Type:          document.Type(core.CleanString(ctx.FormValue("type"), true /* lower */)),
		BeneficiaryID: core.CleanString(ctx.FormValue("beneficiary_id")),
	}
	up.Unique, _ = strconv.ParseBool(ctx.FormValue("unique"))

	fh, err := ctx.FormFile("file")
	if err != nil && err != http.ErrMissingFile && err != http.ErrNotMultipart {
		return errors.Wrap(err, "reading uploaded file")
	}
	var file multipart.File
	if fh != nil {
		if file, err = fh.Open(); err != nil {
			return errors.Wrap(err, "opening uploaded file")
		}
		defer func() { _ = file.Close() }()

		up.Filename = fh.Filename
		up.Size = fh.Size
		up.ContentType = fh.Header.Get(echo.HeaderContentType)
		up.Content = file
	}

	doc, err := api.svc.Upload(ctx.Request().Context(), actor, up)
	if err != nil {
		return errors.Wrap(err, "uploading document")
	}
	return ctx.JSON(http.StatusCreated, doc)
}

func (api *documentApi) query(ctx echo.Context) error {
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	filter := &document.QueryFilter{
		BeneficiaryID: ctx.QueryParam("beneficiary_id"),
		Search:        ctx.QueryParam("search"),
		Type:          document.Type(ctx.QueryParam("type")),
		Status:        document.Status(ctx.QueryParam("status")),
	}
	docs, err := api.svc.QueryMine(ctx.Request().Context(), actor, filter)
	if err != nil {
		return errors.Wrap(err, "querying documents")
	}
	return ctx.JSON(http.StatusOK, docs)
}

func (api *documentApi) stats(ctx echo.Context) error {
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	stats, err := api.svc.UploaderStats(ctx.Request().Context(), actor)
	if err != nil {
		return errors.Wrap(err, "computing documents stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *documentApi) types(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, document.TypeInfos())
}

func (api *documentApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, ctx.Get(contextDocumentKey).(document.Document))
}

func (api *documentApi) download(ctx echo.Context) error {
	doc := ctx.Get(contextDocumentKey).(document.Document)
	rc, err := api.svc.Download(ctx.Request().Context(), doc)
	if err != nil {
		return errors.Wrap(err, "downloading document")
	}
	defer func() { _ = rc.Close() }()

	ctx.Response().Header().Set(echo.HeaderContentDisposition, attachment(doc.Name))
	return ctx.Stream(http.StatusOK, echo.MIMEOctetStream, rc)
}

func (api *documentApi) url(ctx echo.Context) error {
	doc := ctx.Get(contextDocumentKey).(document.Document)
	return ctx.JSON(http.StatusOK, URLResponse{URL: api.svc.PublicURL(doc)})
}

func (api *documentApi) updateStatus(ctx echo.Context) error {
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	var data document.StatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdate")
	}
	doc, err := api.svc.UpdateStatus(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating document status")
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *documentApi) destroy(ctx echo.Context) error {
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), actor, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting document")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// uploaderOrAdminMiddleware loads the Document :id, visible only to its uploader and to admins.
func (api *documentApi) uploaderOrAdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		actor, err := getActor(ctx)
		if err != nil {
			return err
		}
		doc, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
		if err != nil {
			if errors.Cause(err) == document.ErrNotFound {
				return errHttpNotFound
			}
			return errors.Wrap(err, "finding document by ID")
		}
		if doc.UploadedBy != actor.UserID && !actor.IsAdmin {
			return errHttpNotFound
		}
		ctx.Set(contextDocumentKey, doc)
		return next(ctx)
	}
}

// attachment builds a Content-Disposition value, quoting and escaping name as needed.
func attachment(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}
