package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/strivelab/backend/pkg/errorx"
	"github.com/strivelab/backend/pkg/xcontext"
)

func (r *Router) baseContext(req *http.Request, w http.ResponseWriter) context.Context {
	ctx := req.Context()
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithDB(ctx, r.db)
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	ctx = xcontext.WithHolder(ctx)

	// Authentication is out of scope; requests identify themselves with an
	// opaque user id header.
	if id := req.Header.Get("X-User-Id"); id != "" {
		ctx = xcontext.WithRequestUserID(ctx, id)
	}

	return ctx
}

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx := r.baseContext(req, w)
		defer func() {
			for _, closer := range r.closers {
				closer(ctx)
			}
		}()

		for _, before := range r.befores {
			newCtx, err := before(ctx)
			if err != nil {
				xcontext.SetError(ctx, err)
				return
			}
			ctx = newCtx
		}

		var request Request
		if err := readRequest(req, method, &request); err != nil {
			xcontext.SetError(ctx, errorx.New(errorx.BadRequest, "Cannot read the request"))
			return
		}

		resp, err := handler(ctx, &request)
		if err != nil {
			xcontext.SetError(ctx, err)
			return
		}

		xcontext.SetResponse(ctx, resp)
	}
}

func wrapRaw(r *Router, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := r.baseContext(req, w)

		for _, before := range r.befores {
			newCtx, err := before(ctx)
			if err != nil {
				writeError(w, err)
				return
			}
			ctx = newCtx
		}

		h.ServeHTTP(w, req.WithContext(ctx))
	})
}

// readRequest binds GET requests from query parameters by json tag and the
// other methods from a JSON body. Only string, int, and bool query fields are
// supported; multipart bodies are left for the handler to parse.
func readRequest(r *http.Request, method string, req any) error {
	switch method {
	case http.MethodGet, http.MethodDelete:
		v := reflect.ValueOf(req).Elem()
		for i := 0; i < v.NumField(); i++ {
			name := v.Type().Field(i).Tag.Get("json")
			queryVal := r.URL.Query().Get(name)
			if queryVal == "" {
				continue
			}

			switch v.Field(i).Kind() {
			case reflect.String:
				v.Field(i).SetString(queryVal)

			case reflect.Int:
				val, err := strconv.Atoi(queryVal)
				if err != nil {
					return err
				}
				v.Field(i).SetInt(int64(val))

			case reflect.Bool:
				val, err := strconv.ParseBool(queryVal)
				if err != nil {
					return err
				}
				v.Field(i).SetBool(val)
			}
		}

		return nil

	default:
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			return nil
		}

		b, err := io.ReadAll(r.Body)
		if err != nil {
			return err
		}

		if len(b) == 0 {
			return nil
		}

		return json.Unmarshal(b, req)
	}
}
