package batch_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/batch"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Ok    bool           `json:"ok"`
	Data  batch.Response `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// setupRouter mounts a tiny API next to the batch endpoint. POST /notes
// rejects an empty title; the store slice records applied writes.
func setupRouter(t *testing.T, maxItems int) (*gin.Engine, *[]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := &[]string{}

	api := r.Group("/api/v1")
	api.POST("/notes", func(c *gin.Context) {
		var body struct {
			Title string `json:"title"`
		}
		_ = c.ShouldBindJSON(&body)
		if body.Title == "" {
			response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "title is required", nil)
			return
		}
		*store = append(*store, body.Title)
		response.Success(c, http.StatusCreated, gin.H{"title": body.Title}, nil)
	})
	api.GET("/whoami", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{
			"auth":   c.GetHeader("Authorization"),
			"status": c.Query("status"),
		}, nil)
	})
	api.GET("/export", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/csv", []byte("a,b\n"))
	})

	h := batch.NewHandler(r, "/api/v1", maxItems)
	api.POST("/batch", h.Submit)
	return r, store
}

func submit(t *testing.T, r http.Handler, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token-1")
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestBatchHandler_Submit(t *testing.T) {
	t.Run("runs items in order without rollback", func(t *testing.T) {
		r, store := setupRouter(t, 0)

		w, env := submit(t, r, `{"requests":[
			{"method":"post","path":"/notes","body":{"title":"first"}},
			{"method":"POST","path":"/notes","body":{"title":""}},
			{"method":"POST","path":"/notes","body":{"title":"third"}},
			{"method":"GET","path":"/whoami?status=Pending"},
			{"method":"GET","path":"/export"}
		]}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"first", "third"}, *store)
		assert.Equal(t, 4, env.Data.Succeeded)
		assert.Equal(t, 1, env.Data.Failed)

		res := env.Data.Results
		require.Len(t, res, 5)
		assert.Equal(t, http.StatusCreated, res[0].Status)
		assert.Equal(t, http.StatusBadRequest, res[1].Status)
		assert.Contains(t, string(res[1].Body), "title is required")
		assert.Equal(t, 2, res[2].Index)
		assert.Contains(t, string(res[3].Body), `"auth":"Bearer token-1"`)
		assert.Contains(t, string(res[3].Body), `"status":"Pending"`)
		assert.Equal(t, `"a,b\n"`, string(res[4].Body))
	})

	t.Run("unknown route is a per item 404", func(t *testing.T) {
		r, _ := setupRouter(t, 0)

		_, env := submit(t, r, `{"requests":[{"method":"GET","path":"/nowhere"}]}`)

		assert.Equal(t, http.StatusNotFound, env.Data.Results[0].Status)
		assert.Equal(t, 1, env.Data.Failed)
	})

	t.Run("rejected before dispatch", func(t *testing.T) {
		cases := []struct {
			name string
			body string
			want string
		}{
			{"empty", `{"requests":[]}`, "Invalid input"},
			{"method", `{"requests":[{"method":"PATCH","path":"/notes"}]}`, "Request 0: method PATCH is not supported"},
			{"path", `{"requests":[{"method":"GET","path":"notes"}]}`, "Request 0: path must start with /"},
			{"nested", `{"requests":[{"method":"POST","path":"/batch"}]}`, "A batch cannot contain another batch"},
			{"too many", `{"requests":[{"method":"GET","path":"/whoami"},{"method":"GET","path":"/whoami"},{"method":"GET","path":"/whoami"}]}`, "A batch may contain at most 2 requests"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				r, store := setupRouter(t, 2)

				w, env := submit(t, r, tc.body)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, apperror.CodeInvalidInput, env.Error.Code)
				assert.Equal(t, tc.want, env.Error.Message)
				assert.Empty(t, *store)
			})
		}
	})
}
