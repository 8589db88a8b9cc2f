package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shubamdev/enquiry-gateway/internal/model"
	"github.com/shubamdev/enquiry-gateway/pkg/xhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type MockEnquiryService struct {
	mock.Mock
}

func (m *MockEnquiryService) Create(ctx context.Context, req model.EnquiryCreateRequest) (*model.Enquiry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Enquiry), args.Error(1)
}

func (m *MockEnquiryService) List(ctx context.Context, source model.EnquirySource) ([]*model.Enquiry, int64, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Enquiry), args.Get(1).(int64), args.Error(2)
}

func (m *MockEnquiryService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEnquiryService) ReplaceImported(ctx context.Context, drafts []model.EnquiryDraft) (int, error) {
	args := m.Called(ctx, drafts)
	return args.Int(0), args.Error(1)
}

func (m *MockEnquiryService) ClearImported(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	// attach fasthttp's fake server so the ctx works as a context.Context
	ctx.Init(&fasthttp.Request{}, nil, nil)
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func TestEnquiryHandler_CreateEnquiry(t *testing.T) {
	t.Run("successful submission", func(t *testing.T) {
		svc := new(MockEnquiryService)
		handler := NewEnquiryHandler(svc)

		bodyBytes, _ := json.Marshal(createEnquiryRequest{
			FullName: "Jane Doe",
			Email:    "jane@example.com",
			Phone:    "9876543210",
			Project:  "Green Valley",
			Message:  "Interested",
		})

		svc.On("Create", mock.Anything, mock.MatchedBy(func(req model.EnquiryCreateRequest) bool {
			return req.FullName == "Jane Doe" && req.Project == "Green Valley"
		})).Return(&model.Enquiry{ID: 42, FullName: "Jane Doe"}, nil)

		ctx := setupTestContext("POST", "/api/mail/send-email", bodyBytes)
		handler.CreateEnquiry(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response struct {
			Success bool          `json:"success"`
			Data    model.Enquiry `json:"data"`
		}
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, int64(42), response.Data.ID)
	})

	t.Run("validation failure returns field errors", func(t *testing.T) {
		svc := new(MockEnquiryService)
		handler := NewEnquiryHandler(svc)

		bodyBytes, _ := json.Marshal(createEnquiryRequest{Phone: "12345"})

		svc.On("Create", mock.Anything, mock.Anything).Return(nil, &model.ValidationError{
			Fields: []model.FieldError{{Field: "phone", Message: "Phone must be exactly 10 digits"}},
		})

		ctx := setupTestContext("POST", "/api/mail/send-email", bodyBytes)
		handler.CreateEnquiry(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())

		var response struct {
			Success bool               `json:"success"`
			Errors  []model.FieldError `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.False(t, response.Success)
		require.Len(t, response.Errors, 1)
		assert.Equal(t, "phone", response.Errors[0].Field)
	})

	t.Run("notification failure still returns the record", func(t *testing.T) {
		svc := new(MockEnquiryService)
		handler := NewEnquiryHandler(svc)

		bodyBytes, _ := json.Marshal(createEnquiryRequest{FullName: "Jane Doe"})

		svc.On("Create", mock.Anything, mock.Anything).
			Return(&model.Enquiry{ID: 9}, model.ErrNotificationFailed)

		ctx := setupTestContext("POST", "/api/mail/send-email", bodyBytes)
		handler.CreateEnquiry(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response struct {
			Success bool          `json:"success"`
			Data    model.Enquiry `json:"data"`
			Warning string        `json:"warning"`
		}
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, int64(9), response.Data.ID)
		assert.NotEmpty(t, response.Warning)
	})

	t.Run("storage failure is a 500", func(t *testing.T) {
		svc := new(MockEnquiryService)
		handler := NewEnquiryHandler(svc)

		bodyBytes, _ := json.Marshal(createEnquiryRequest{FullName: "Jane Doe"})

		svc.On("Create", mock.Anything, mock.Anything).Return(nil, model.ErrStorage)

		ctx := setupTestContext("POST", "/api/mail/send-email", bodyBytes)
		handler.CreateEnquiry(ctx)

		assert.Equal(t, 500, ctx.Response.StatusCode())
	})

	t.Run("malformed JSON", func(t *testing.T) {
		svc := new(MockEnquiryService)
		handler := NewEnquiryHandler(svc)

		ctx := setupTestContext("POST", "/api/mail/send-email", []byte("{not json"))
		handler.CreateEnquiry(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestEnquiryHandler_ListEnquiries(t *testing.T) {
	svc := new(MockEnquiryService)
	handler := NewEnquiryHandler(svc)

	svc.On("List", mock.Anything, model.SourceManual).
		Return([]*model.Enquiry{{ID: 1}, {ID: 2}}, int64(2), nil)

	ctx := setupTestContext("GET", "/api/mail", nil)
	handler.ListEnquiries(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())

	var response listResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
	assert.Equal(t, int64(2), response.Total)
	assert.Len(t, response.Items, 2)
}

func TestEnquiryHandler_DeleteEnquiry(t *testing.T) {
	t.Run("deletes by path id", func(t *testing.T) {
		svc := new(MockEnquiryService)
		handler := NewEnquiryHandler(svc)

		svc.On("Delete", mock.Anything, int64(42)).Return(nil)

		ctx := setupTestContext("DELETE", "/api/mail/enquiry/42", nil)
		ctx.SetUserValue("id", "42")
		handler.DeleteEnquiry(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
	})

	t.Run("missing id is a 404", func(t *testing.T) {
		svc := new(MockEnquiryService)
		handler := NewEnquiryHandler(svc)

		svc.On("Delete", mock.Anything, int64(404)).Return(model.ErrNotFound)

		ctx := setupTestContext("DELETE", "/api/mail/enquiry/404", nil)
		ctx.SetUserValue("id", "404")
		handler.DeleteEnquiry(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})

	t.Run("non-numeric id is a 400", func(t *testing.T) {
		svc := new(MockEnquiryService)
		handler := NewEnquiryHandler(svc)

		ctx := setupTestContext("DELETE", "/api/mail/enquiry/abc", nil)
		ctx.SetUserValue("id", "abc")
		handler.DeleteEnquiry(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("storage failure is a 500", func(t *testing.T) {
		svc := new(MockEnquiryService)
		handler := NewEnquiryHandler(svc)

		svc.On("Delete", mock.Anything, int64(1)).
			Return(errors.New("storage failure: io timeout"))

		ctx := setupTestContext("DELETE", "/api/mail/enquiry/1", nil)
		ctx.SetUserValue("id", "1")
		handler.DeleteEnquiry(ctx)

		assert.Equal(t, 500, ctx.Response.StatusCode())
	})
}
