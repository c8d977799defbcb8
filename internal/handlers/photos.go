package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Ayuu1305/squad-quest-sub002/internal/authctx"
	"github.com/Ayuu1305/squad-quest-sub002/internal/config"
	"github.com/Ayuu1305/squad-quest-sub002/internal/firebase"
	"github.com/Ayuu1305/squad-quest-sub002/internal/httpjson"

	credentials "cloud.google.com/go/iam/credentials/apiv1"
	credentialspb "cloud.google.com/go/iam/credentials/apiv1/credentialspb"
	"cloud.google.com/go/storage"
)

// Photos issues short-lived signed GET URLs so squadmates can view each
// other's verification photos without the bucket being public.
type Photos struct {
	cfg     config.Config
	clients *firebase.Clients
	iam     *credentials.IamCredentialsClient
}

func NewPhotos(cfg config.Config, clients *firebase.Clients) *Photos {
	// IAM client is optional; only needed for signed URLs.
	iamClient, _ := credentials.NewIamCredentialsClient(context.Background())
	return &Photos{cfg: cfg, clients: clients, iam: iamClient}
}

type viewURLReq struct {
	PhotoPath      string `json:"photoPath"` // e.g. "quests/{questId}/evidence/{uid}-{uuid}.jpg"
	ExpiresSeconds int64  `json:"expiresSeconds,omitempty"` // default 900
}

type viewURLResp struct {
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expiresAt"`
}

func (h *Photos) CreateViewURL(w http.ResponseWriter, r *http.Request) {
	if _, ok := authctx.UID(r.Context()); !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req viewURLReq
	if err := httpjson.Read(r, &req); err != nil || req.PhotoPath == "" {
		httpjson.Error(w, http.StatusBadRequest, "photoPath is required")
		return
	}
	// Only evidence objects are signable through this endpoint.
	if !strings.HasPrefix(req.PhotoPath, "quests/") || strings.Contains(req.PhotoPath, "..") {
		httpjson.Error(w, http.StatusBadRequest, "invalid photoPath")
		return
	}

	url, exp, err := h.signedURL(r.Context(), req.PhotoPath, req.ExpiresSeconds)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, viewURLResp{URL: url, ExpiresAt: exp.Unix()})
}

func (h *Photos) signedURL(ctx context.Context, objectPath string, expiresSeconds int64) (string, time.Time, error) {
	if h.cfg.StorageBucket == "" {
		return "", time.Time{}, fmt.Errorf("FIREBASE_STORAGE_BUCKET is not set")
	}
	if h.cfg.SignedURLServiceAccountEmail == "" {
		return "", time.Time{}, fmt.Errorf("SIGNED_URL_SERVICE_ACCOUNT_EMAIL is not set")
	}
	if h.iam == nil {
		return "", time.Time{}, fmt.Errorf("IAM credentials client not available")
	}
	if expiresSeconds <= 0 || expiresSeconds > 3600 {
		expiresSeconds = 900
	}
	exp := time.Now().Add(time.Duration(expiresSeconds) * time.Second)

	opts := &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         "GET",
		Expires:        exp,
		GoogleAccessID: h.cfg.SignedURLServiceAccountEmail,
		SignBytes: func(b []byte) ([]byte, error) {
			name := fmt.Sprintf("projects/-/serviceAccounts/%s", h.cfg.SignedURLServiceAccountEmail)
			resp, err := h.iam.SignBlob(ctx, &credentialspb.SignBlobRequest{
				Name:    name,
				Payload: b,
			})
			if err != nil {
				return nil, err
			}
			return resp.SignedBlob, nil
		},
	}

	url, err := storage.SignedURL(h.cfg.StorageBucket, objectPath, opts)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign url (check service account + permissions): %v", err)
	}
	return url, exp, nil
}
