package http

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	var raw openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFromBytes(raw[:])
}

func bindBody(ctx echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(ctx, dst); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return nil
}
