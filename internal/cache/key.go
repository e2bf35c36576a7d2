package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/Mutter0815/NewsletterHub/internal/subscription"
)

// FilterKey fingerprints the set of present filter fields. The pairs are
// sorted before hashing, so two filters with the same fields produce the
// same key regardless of construction order. Pagination fields participate
// because they change the result set.
func FilterKey(f subscription.Filter) string {
	pairs := make([]string, 0, 5)
	if f.Gender != 0 {
		pairs = append(pairs, "gender="+strconv.Itoa(int(f.Gender)))
	}
	if !f.Birth.IsZero() {
		pairs = append(pairs, "birth="+f.Birth.Format(subscription.DateFormat))
	}
	if f.NewsletterCampaign != 0 {
		pairs = append(pairs, "newsletterCampaign="+strconv.FormatInt(f.NewsletterCampaign, 10))
	}
	if f.Paginated() {
		pairs = append(pairs, "skip="+strconv.Itoa(f.Skip), "take="+strconv.Itoa(f.Take))
	}
	sort.Strings(pairs)

	sum := md5.Sum([]byte(strings.Join(pairs, ",")))
	return hex.EncodeToString(sum[:])
}

// IDKey is the cache key for a point lookup.
func IDKey(id int64) string { return strconv.FormatInt(id, 10) }
