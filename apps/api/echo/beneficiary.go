package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/divyang/core/beneficiary"
	"github.com/trezcool/divyang/core/document"
)

type beneficiaryApi struct {
	svc    *beneficiary.Service
	docSvc *document.Service
}

func registerBeneficiaryAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *beneficiary.Service, docSvc *document.Service) {
	api := beneficiaryApi{svc: svc, docSvc: docSvc}

	bg := g.Group("/beneficiaries", jwt)
	bg.GET("", api.query)
	bg.POST("", api.create)
	bg.GET("/completion", api.completion)
	bg.GET("/:id", api.retrieve)
	bg.PUT("/:id", api.update)
	bg.GET("/:id/documents", api.documents)
	bg.GET("/:id/documents/stats", api.documentStats)
}

// BeneficiaryResponse is a Beneficiary with its age as of today.
type BeneficiaryResponse struct {
	beneficiary.Beneficiary
	Age int `json:"age"`
}

func newBeneficiaryResponse(b beneficiary.Beneficiary) BeneficiaryResponse {
	return BeneficiaryResponse{Beneficiary: b, Age: b.Age(time.Now().UTC())}
}

func (api *beneficiaryApi) query(ctx echo.Context) error {
	filter := &beneficiary.QueryFilter{Search: ctx.QueryParam("search")}
	bens, err := api.svc.Query(ctx.Request().Context(), filter, bindOrdering(ctx))
	if err != nil {
		return errors.Wrap(err, "querying beneficiaries")
	}
	resp := make([]BeneficiaryResponse, 0, len(bens))
	for _, b := range bens {
		resp = append(resp, newBeneficiaryResponse(b))
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *beneficiaryApi) create(ctx echo.Context) error {
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	var data beneficiary.Draft
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Draft")
	}
	b, err := api.svc.Create(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "creating beneficiary")
	}
	return ctx.JSON(http.StatusCreated, newBeneficiaryResponse(b))
}

func (api *beneficiaryApi) retrieve(ctx echo.Context) error {
	b, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding beneficiary by ID")
	}
	return ctx.JSON(http.StatusOK, newBeneficiaryResponse(b))
}

func (api *beneficiaryApi) update(ctx echo.Context) error {
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	var data beneficiary.Draft
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Draft")
	}
	b, err := api.svc.Update(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating beneficiary")
	}
	return ctx.JSON(http.StatusOK, newBeneficiaryResponse(b))
}

func (api *beneficiaryApi) completion(ctx echo.Context) error {
	completions, err := api.docSvc.CompletionByBeneficiary(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing documents completion")
	}
	return ctx.JSON(http.StatusOK, completions)
}

func (api *beneficiaryApi) documents(ctx echo.Context) error {
	docs, err := api.docSvc.BeneficiaryDocuments(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying beneficiary documents")
	}
	return ctx.JSON(http.StatusOK, docs)
}

func (api *beneficiaryApi) documentStats(ctx echo.Context) error {
	stats, err := api.docSvc.BeneficiaryStats(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "computing beneficiary documents stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}
