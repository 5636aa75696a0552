// Package redis connects to Redis with go-redis/v9 and exposes a health probe.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	spent := redisstore.NewSpentTokens(client, cfg.KeyPrefix)
package redis
