package clicks

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/perkfox/perkfox/internal/pkg/cache"
	"github.com/perkfox/perkfox/internal/pkg/database"
)

const pendingClicksKey = "partner:counters:clicks"

// addPendingClick increments the pending click counter for a partner in Redis.
// The denormalized partners.click_count column is only updated on flush.
func addPendingClick(partnerID uint) error {
	ctx := context.Background()
	field := strconv.FormatUint(uint64(partnerID), 10)
	return cache.GetClient().HIncrBy(ctx, pendingClicksKey, field, 1).Err()
}

// FlushPendingCounters drains the Redis click hash atomically and applies the
// batched increments to partners.click_count. Uses RENAME to a temporary key
// so in-flight increments are never lost.
func FlushPendingCounters() error {
	ctx := context.Background()
	rdb := cache.GetClient()

	tmpKey := fmt.Sprintf("%s:tmp:%d", pendingClicksKey, time.Now().UnixNano())
	if err := rdb.Do(ctx, "RENAME", pendingClicksKey, tmpKey).Err(); err != nil {
		// Missing key means nothing to flush.
		if strings.Contains(strings.ToLower(err.Error()), "no such key") {
			return nil
		}
		if err.Error() == "redis: nil" {
			return nil
		}
		return err
	}
	defer rdb.Del(ctx, tmpKey)

	data, err := rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	type pair struct {
		id  uint64
		inc int64
	}
	pairs := make([]pair, 0, len(data))
	for k, v := range data {
		id, perr := strconv.ParseUint(k, 10, 64)
		if perr != nil {
			continue
		}
		inc, ierr := strconv.ParseInt(v, 10, 64)
		if ierr != nil || inc == 0 {
			continue
		}
		pairs = append(pairs, pair{id: id, inc: inc})
	}
	if len(pairs) == 0 {
		return nil
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].id < pairs[j].id })

	// UPDATE partners SET click_count = click_count + CASE id WHEN ? THEN ? ... END WHERE id IN (...)
	var builder strings.Builder
	args := make([]interface{}, 0, len(pairs)*3)
	builder.WriteString("UPDATE partners SET click_count = click_count + CASE id ")
	for _, p := range pairs {
		builder.WriteString(" WHEN ? THEN ?")
		args = append(args, p.id, p.inc)
	}
	builder.WriteString(" END WHERE id IN (")
	for i, p := range pairs {
		if i > 0 {
			builder.WriteString(",")
		}
		builder.WriteString("?")
		args = append(args, p.id)
	}
	builder.WriteString(")")

	return database.GetDB().Exec(builder.String(), args...).Error
}
