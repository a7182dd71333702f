package browser_test

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/architeacher/docrepo/pkg/cmis"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()

	data, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(data)
}

func TestClient_RepositoryInfo(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/browser/main", r.URL.Path)
		require.Equal(t, "repositoryInfo", r.URL.Query().Get("cmisselector"))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"main": map[string]any{
				"repositoryId":         "main",
				"repositoryName":       "Main Repository",
				"productName":          "Content Engine",
				"productVersion":       "5.5",
				"rootFolderId":         "root-1",
				"cmisVersionSupported": "1.1",
			},
		})
	})

	info, err := client.RepositoryInfo(context.Background())

	require.NoError(t, err)
	require.Equal(t, "Main Repository", info.Name)
	require.Equal(t, "root-1", info.RootFolderID)
	require.Equal(t, "1.1", info.CMISVersion)
}

func TestClient_GetObjectByPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		path         string
		expectedPath string
	}{
		{name: "root", path: "/", expectedPath: "/browser/main/root"},
		{name: "empty is root", path: "", expectedPath: "/browser/main/root"},
		{name: "nested folder", path: "/Finance/Q1 Reports", expectedPath: "/browser/main/root/Finance/Q1 Reports"},
		{name: "backslashes", path: `Finance\2024`, expectedPath: "/browser/main/root/Finance/2024"},
		{name: "percent sign", path: "/Sales/100%", expectedPath: "/browser/main/root/Sales/100%"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, tc.expectedPath, r.URL.Path)
				require.Equal(t, "object", r.URL.Query().Get("cmisselector"))

				writeJSON(t, w, http.StatusOK, objectJSON("folder-1", "Q1 Reports", "cmis:folder"))
			})

			folder, err := client.GetObjectByPath(context.Background(), tc.path)

			require.NoError(t, err)
			require.True(t, folder.IsFolder())
			require.Equal(t, "folder-1", folder.ID())
		})
	}
}

func TestClient_GetChildren(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "children", r.URL.Query().Get("cmisselector"))
		require.Equal(t, "folder-1", r.URL.Query().Get("objectId"))

		if r.URL.Query().Get("skipCount") == "0" {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"objects": []any{
					map[string]any{"object": objectJSON("doc-1", "a.pdf", "cmis:document")},
					map[string]any{"object": objectJSON("sub-1", "Archive", "cmis:folder")},
				},
				"hasMoreItems": true,
			})

			return
		}

		writeJSON(t, w, http.StatusOK, map[string]any{
			"objects":      []any{map[string]any{"object": objectJSON("doc-2", "b.pdf", "cmis:document")}},
			"hasMoreItems": false,
		})
	})

	children, err := client.GetChildren(context.Background(), "folder-1")

	require.NoError(t, err)
	require.Len(t, children, 3)
	require.Equal(t, "a.pdf", children[0].Name())
	require.True(t, children[1].IsFolder())
	require.Equal(t, "doc-2", children[2].ID())
}

func TestClient_GetParents(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "parents", r.URL.Query().Get("cmisselector"))

		folder := objectJSON("folder-1", "Finance", "cmis:folder")
		folder["properties"].(map[string]any)[cmis.PropertyPath] = property(cmis.PropertyPath, "string", "/Finance")

		writeJSON(t, w, http.StatusOK, []any{
			map[string]any{"object": folder, "relativePathSegment": "a.pdf"},
		})
	})

	parents, err := client.GetParents(context.Background(), "doc-1")

	require.NoError(t, err)
	require.Len(t, parents, 1)
	require.Equal(t, "/Finance", parents[0].Path())
}

func TestClient_CreateFolder(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "parent-1", r.URL.Query().Get("objectId"))
		require.NoError(t, r.ParseForm())
		require.Equal(t, "createFolder", r.PostForm.Get("cmisaction"))
		require.Equal(t, "cmis:name", r.PostForm.Get("propertyId[0]"))
		require.Equal(t, "Invoices", r.PostForm.Get("propertyValue[0]"))
		require.Equal(t, "cmis:objectTypeId", r.PostForm.Get("propertyId[1]"))
		require.Equal(t, "cmis:folder", r.PostForm.Get("propertyValue[1]"))

		writeJSON(t, w, http.StatusCreated, objectJSON("folder-9", "Invoices", "cmis:folder"))
	})

	folder, err := client.CreateFolder(context.Background(), "parent-1", "Invoices")

	require.NoError(t, err)
	require.Equal(t, "folder-9", folder.ID())
}

func TestClient_CreateDocument(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "folder-1", r.URL.Query().Get("objectId"))

		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		require.Equal(t, "multipart/form-data", mediaType)

		reader := multipart.NewReader(r.Body, params["boundary"])

		first, err := reader.NextPart()
		require.NoError(t, err)
		require.Equal(t, "cmisaction", first.FormName())
		require.Equal(t, "createDocument", readAll(t, first))

		fields := map[string]string{}

		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}

			require.NoError(t, err)

			if part.FormName() == "content" {
				require.Equal(t, "report.pdf", part.FileName())
				require.Equal(t, "application/pdf", part.Header.Get("Content-Type"))
			}

			fields[part.FormName()] = readAll(t, part)
		}

		require.Equal(t, "%PDF-1.7", fields["content"])
		require.Equal(t, "report.pdf", fields["propertyValue[0]"])
		require.Equal(t, "cmis:document", fields["propertyValue[1]"])

		writeJSON(t, w, http.StatusCreated, objectJSON("doc-7", "report.pdf", "cmis:document"))
	})

	document, err := client.CreateDocument(context.Background(), "folder-1", "report.pdf", "application/pdf", []byte("%PDF-1.7"))

	require.NoError(t, err)
	require.Equal(t, "doc-7", document.ID())
	require.True(t, document.IsDocument())
}

func TestClient_DeleteObject(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "doc-1", r.URL.Query().Get("objectId"))
		require.NoError(t, r.ParseForm())
		require.Equal(t, "delete", r.PostForm.Get("cmisaction"))
		require.Equal(t, "true", r.PostForm.Get("allVersions"))

		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.DeleteObject(context.Background(), "doc-1", true))
}

func TestClient_GetContentStream(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "content", r.URL.Query().Get("cmisselector"))

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="totals.csv"`)
		_, _ = w.Write([]byte("a,b\n1,2\n"))
	})

	stream, err := client.GetContentStream(context.Background(), "doc-1")
	require.NoError(t, err)

	t.Cleanup(func() { _ = stream.Stream.Close() })

	require.Equal(t, "text/csv", stream.MimeType)
	require.Equal(t, "totals.csv", stream.FileName)
	require.Equal(t, int64(8), stream.Length)
	require.Equal(t, "a,b\n1,2\n", readAll(t, stream.Stream))
}

func TestClient_GetObjectNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetObject(context.Background(), "nope")

	require.ErrorIs(t, err, cmis.ErrObjectNotFound)
	require.Contains(t, err.Error(), "Not Found")
}
