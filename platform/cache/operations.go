package cache

import (
	"github.com/gomodule/redigo/redis"
)

func Get(key string, conn *redis.Conn) (string, error) {
	return redis.String((*conn).Do("GET", key))
}

func Set(key string, value interface{}, conn *redis.Conn) error {
	_, err := (*conn).Do("SET", key, value)
	return err
}

func Del(key string, conn *redis.Conn) error {
	_, err := (*conn).Do("DEL", key)
	return err
}

func HSET(key string, field string, value interface{}, conn *redis.Conn) error {
	_, err := (*conn).Do("HSET", key, field, value)
	return err
}

func HGET(key string, field string, conn *redis.Conn) (string, error) {
	return redis.String((*conn).Do("HGET", key, field))
}

func HDEL(key string, field string, conn *redis.Conn) error {
	_, err := (*conn).Do("HDEL", key, field)
	return err
}

func HLEN(key string, conn *redis.Conn) (int, error) {
	return redis.Int((*conn).Do("HLEN", key))
}
