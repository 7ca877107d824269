package editorrpc

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uber/arena-editor/src/editor/entity"
	editorerrors "github.com/uber/arena-editor/src/editor/internal/errors"
	"github.com/uber/arena-editor/src/editor/mapper"
	"go.lsp.dev/jsonrpc2"
)

type setProjectParams struct {
	Workspace string `json:"workspace"`
	ProjectID string `json:"projectId"`
}

func (p *setProjectParams) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Workspace, validation.Required),
		validation.Field(&p.ProjectID, validation.Required),
	)
}

type pathParams struct {
	Path string `json:"path"`
}

func (p *pathParams) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Path, validation.Required),
	)
}

type changeContentParams struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func (p *changeContentParams) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Path, validation.Required),
	)
}

type jobProblemsParams struct {
	JobID    string           `json:"jobId"`
	Problems []entity.Problem `json:"problems"`
}

func (p *jobProblemsParams) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.JobID, validation.Required),
	)
}

type positionParams struct {
	Path     string          `json:"path"`
	Position entity.Position `json:"position"`
}

func (p *positionParams) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Path, validation.Required),
	)
}

// changeContentResult answers editor/changeContent with the local validation outcome.
type changeContentResult struct {
	Validation entity.ValidationResult `json:"validation"`
}

// changedResult reports whether the request changed editor state.
type changedResult struct {
	Changed bool `json:"changed"`
}

type validatable[T any] interface {
	*T
	validation.Validatable
}

// decodeParams unmarshals and validates the request parameters.
func decodeParams[T any, P validatable[T]](req jsonrpc2.Request) (*T, error) {
	params, err := mapper.RequestToParams[T](req)
	if err != nil {
		return nil, err
	}
	if err := P(params).Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", jsonrpc2.ErrInvalidParams, err)
	}
	return params, nil
}

func (r *jsonRPCRouter) SetProject(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := decodeParams[setProjectParams](req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.ctrl.SetProject(ctx, params.Workspace, params.ProjectID)
	return reply(ctx, nil, err)
}

func (r *jsonRPCRouter) ClearProject(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	r.ctrl.ClearProject(ctx)
	return reply(ctx, nil, nil)
}

func (r *jsonRPCRouter) OpenFile(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := decodeParams[pathParams](req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.ctrl.OpenFile(ctx, params.Path)
	return reply(ctx, nil, err)
}

func (r *jsonRPCRouter) ChangeContent(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := decodeParams[changeContentParams](req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, ok := r.ctrl.ChangeContent(params.Path, params.Content)
	if !ok {
		return reply(ctx, nil, &editorerrors.DocumentNotFoundError{Path: params.Path})
	}
	return reply(ctx, changeContentResult{Validation: result}, nil)
}

func (r *jsonRPCRouter) SetActiveFile(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := decodeParams[pathParams](req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	changed := r.ctrl.SetActiveFile(ctx, params.Path)
	return reply(ctx, changedResult{Changed: changed}, nil)
}

func (r *jsonRPCRouter) CloseFile(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := decodeParams[pathParams](req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	changed := r.ctrl.CloseFile(ctx, params.Path)
	return reply(ctx, changedResult{Changed: changed}, nil)
}

func (r *jsonRPCRouter) Save(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := decodeParams[pathParams](req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.ctrl.Save(ctx, params.Path)
	return reply(ctx, nil, err)
}

func (r *jsonRPCRouter) SaveAll(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	err := r.ctrl.SaveAll(ctx)
	return reply(ctx, nil, err)
}

func (r *jsonRPCRouter) ValidateProject(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	err := r.ctrl.ValidateProject(ctx)
	return reply(ctx, nil, err)
}

func (r *jsonRPCRouter) IngestJobProblems(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := decodeParams[jobProblemsParams](req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	r.ctrl.IngestJobProblems(params.JobID, params.Problems)
	return reply(ctx, nil, nil)
}

func (r *jsonRPCRouter) RefreshJobProblems(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := decodeParams[jobProblemsParams](req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.ctrl.RefreshJobProblems(ctx, params.JobID)
	return reply(ctx, nil, err)
}

func (r *jsonRPCRouter) Mount(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	r.handler.hold(r.uuid)
	r.ctrl.Mount(ctx)
	return reply(ctx, nil, nil)
}

func (r *jsonRPCRouter) SurfaceReady(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	r.ctrl.SurfaceReady(ctx)
	return reply(ctx, nil, nil)
}

func (r *jsonRPCRouter) Unmount(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	if r.handler.release(r.uuid) {
		r.ctrl.Unmount()
	}
	return reply(ctx, nil, nil)
}

func (r *jsonRPCRouter) Hover(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := decodeParams[positionParams](req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.ctrl.Hover(ctx, params.Path, params.Position)
	return reply(ctx, result, err)
}

func (r *jsonRPCRouter) Completion(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := decodeParams[positionParams](req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.ctrl.Completion(ctx, params.Path, params.Position)
	return reply(ctx, result, err)
}
