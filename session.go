package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/shadowdrill/internal/audio"
	"github.com/dgnsrekt/shadowdrill/internal/cache"
	"github.com/dgnsrekt/shadowdrill/internal/drill"
	"github.com/dgnsrekt/shadowdrill/internal/sentence"
	"github.com/dgnsrekt/shadowdrill/internal/settings"
	"github.com/dgnsrekt/shadowdrill/internal/storage"
)

const recordTimeout = time.Second

// session holds everything the player needs, opened from the config.
type session struct {
	db     *storage.DB
	store  *settings.Store
	clips  *cache.Clips
	player *audio.Player
	ctrl   *drill.Controller
}

func openStore(cfg appConfig) (*storage.DB, *settings.Store, error) {
	db, err := storage.Open(cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open store: %w", err)
	}
	return db, settings.NewStore(db), nil
}

func openClipCache(cfg cacheConfig) (*cache.Clips, error) {
	mem := cache.NewMemoryCache(int64(cfg.MemoryMB) * mb)
	if cfg.DiskMB == 0 || cfg.Dir == "" {
		return cache.NewClips(mem, nil), nil
	}
	disk, err := cache.NewDiskCache(cfg.Dir, int64(cfg.DiskMB)*mb)
	if err != nil {
		return nil, fmt.Errorf("unable to open clip cache: %w", err)
	}
	return cache.NewClips(mem, disk), nil
}

func openSession(cfg appConfig) (*session, error) {
	mode, err := drill.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	db, store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	clips, err := openClipCache(cfg.Cache)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	player, err := audio.NewPlayer(playerConfig(cfg), audio.NewDecoder(cfg.SampleRate, clips))
	if err != nil {
		_ = clips.Close()
		_ = db.Close()
		return nil, fmt.Errorf("unable to open audio device: %w", err)
	}

	s := &session{db: db, store: store, clips: clips, player: player}
	s.ctrl = drill.New(drill.Options{
		Media:    player,
		Store:    store,
		AudioDir: cfg.AudioDir,
		Mode:     mode,
		OnPlay:   s.record,
	})
	return s, nil
}

// record adds a played clip to the practice history.
func (s *session) record(sn sentence.Sentence, m drill.Mode) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := s.db.RecordPlay(ctx, sn.No, m.String(), time.Now()); err != nil {
		log.Warn("unable to record play", "no", sn.No, "error", err)
	}
}

func (s *session) Close() error {
	mem, disk := s.clips.Stats()
	log.Debug("clip cache", "memory", mem, "disk", disk)
	return errors.Join(s.player.Close(), s.clips.Close(), s.db.Close())
}

func playerConfig(cfg appConfig) audio.PlayerConfig {
	pcfg := audio.DefaultPlayerConfig()
	pcfg.SampleRate = cfg.SampleRate
	pcfg.Volume = cfg.Volume
	return pcfg
}
