// Package auth verifies Telegram Mini App init data. Every API request
// carries the raw init-data string; the signature chain proves it was
// issued by Telegram for this bot and has not been tampered with.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/ludik-gifts/backend/internal/domain"
)

// verifyCacheSize bounds the verified init-data cache. Entries are small
// (raw string -> identity) and expire on their own; the size cap only
// guards against unbounded growth from junk traffic.
const verifyCacheSize = 4096

// Verifier validates init-data strings and caches successful results so
// repeat requests within the cache window skip the HMAC chain.
type Verifier struct {
	secretKey []byte
	maxAge    time.Duration
	cache     *expirable.LRU[string, domain.Identity]
	now       func() time.Time // Injectable for testing
}

// NewVerifier derives the verification key from the bot token per the
// Telegram Mini App scheme: secret = HMAC-SHA256(key="WebAppData", token).
func NewVerifier(botToken string, maxAge time.Duration) *Verifier {
	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(botToken))

	cacheTTL := maxAge
	if cacheTTL > 5*time.Minute {
		cacheTTL = 5 * time.Minute
	}

	return &Verifier{
		secretKey: mac.Sum(nil),
		maxAge:    maxAge,
		cache:     expirable.NewLRU[string, domain.Identity](verifyCacheSize, nil, cacheTTL),
		now:       time.Now,
	}
}

// VerifyInitData checks the signature and freshness of a raw init-data
// query string and returns the authenticated identity. All failure modes
// collapse into ErrAuthFailed; the caller never learns which check broke.
func (v *Verifier) VerifyInitData(raw string) (domain.Identity, error) {
	if raw == "" {
		return domain.Identity{}, domain.ErrAuthFailed
	}
	if identity, ok := v.cache.Get(raw); ok {
		return identity, nil
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: malformed init data", domain.ErrAuthFailed)
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing hash", domain.ErrAuthFailed)
	}

	if !hmac.Equal([]byte(v.expectedHash(values)), []byte(gotHash)) {
		return domain.Identity{}, fmt.Errorf("%w: signature mismatch", domain.ErrAuthFailed)
	}

	if err := v.checkFreshness(values.Get("auth_date")); err != nil {
		return domain.Identity{}, err
	}

	identity, err := parseUser(values.Get("user"))
	if err != nil {
		return domain.Identity{}, err
	}

	v.cache.Add(raw, identity)
	return identity, nil
}

// expectedHash builds the data-check string (sorted key=value lines joined
// by newlines, hash excluded) and signs it with the derived key.
func (v *Verifier) expectedHash(values url.Values) string {
	lines := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		lines = append(lines, key+"="+values.Get(key))
	}
	sort.Strings(lines)

	mac := hmac.New(sha256.New, v.secretKey)
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

// checkFreshness rejects init data older than maxAge. A signed payload is
// a bearer credential; without the age check a leaked one works forever.
func (v *Verifier) checkFreshness(authDate string) error {
	if v.maxAge <= 0 {
		return nil
	}
	unix, err := strconv.ParseInt(authDate, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad auth_date", domain.ErrAuthFailed)
	}
	if v.now().Sub(time.Unix(unix, 0)) > v.maxAge {
		return fmt.Errorf("%w: init data expired", domain.ErrAuthFailed)
	}
	return nil
}

func parseUser(userJSON string) (domain.Identity, error) {
	if userJSON == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing user", domain.ErrAuthFailed)
	}
	var parsed struct {
		ID        int64  `json:"id"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.Unmarshal([]byte(userJSON), &parsed); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: malformed user payload", domain.ErrAuthFailed)
	}
	if parsed.ID == 0 {
		return domain.Identity{}, fmt.Errorf("%w: user id missing", domain.ErrAuthFailed)
	}
	return domain.Identity{
		ID:        parsed.ID,
		Username:  parsed.Username,
		FirstName: parsed.FirstName,
		LastName:  parsed.LastName,
	}, nil
}
