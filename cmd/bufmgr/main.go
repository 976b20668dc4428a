package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/bietkhonhungvandi212/bufmgr/internal/config"
	"github.com/bietkhonhungvandi212/bufmgr/internal/logger"
	"github.com/bietkhonhungvandi212/bufmgr/internal/storage/buffer"
	"github.com/bietkhonhungvandi212/bufmgr/internal/storage/file"
	"github.com/bietkhonhungvandi212/bufmgr/internal/storage/page"
	util "github.com/bietkhonhungvandi212/bufmgr/internal/utils"
)

func main() {
	var (
		configPath string
		frames     int
		pages      int
	)
	flag.StringVar(&configPath, "config", "", "path to an ini config file")
	flag.IntVar(&frames, "frames", 0, "override the buffer pool size")
	flag.IntVar(&pages, "pages", 8, "number of pages to write through the pool")
	flag.Parse()

	if err := run(configPath, frames, pages); err != nil {
		fmt.Fprintln(os.Stderr, "bufmgr:", err)
		os.Exit(1)
	}
}

func run(configPath string, frames, pages int) error {
	opts, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if frames > 0 {
		opts.BufferPoolSize = frames
	}

	log, closeLog, err := logger.New(logger.LogConfig{Level: opts.LogLevel, Path: opts.LogPath})
	if err != nil {
		return err
	}
	defer closeLog()

	fm, err := file.NewFileManager(opts.Path, opts.InitialPages,
		file.WithSyncWrites(opts.SyncWrites),
		file.WithLogger(log.WithField("component", "filemanager")))
	if err != nil {
		return err
	}
	defer fm.Close()

	bp := buffer.NewBufferPool(opts.BufferPoolSize, fm, buffer.WithLogger(log))
	log.WithFields(logrus.Fields{"frames": bp.PoolSize(), "path": opts.Path}).Info("buffer pool ready")

	// write pages through the pool; more pages than frames forces evictions
	ids := make([]util.PageID, 0, pages)
	for i := 0; i < pages; i++ {
		src := page.CreateTestPage(0, []byte(fmt.Sprintf("page #%d", i)))
		id, _, err := bp.NewPage(src, 1)
		if err != nil {
			return err
		}
		if err := bp.UnpinPage(id, true); err != nil {
			return err
		}
		ids = append(ids, id)
	}

	// read them back
	for _, id := range ids {
		p, err := bp.PinPage(id, buffer.FromDisk, nil)
		if err != nil {
			return err
		}
		log.WithField("page", id).Debugf("read %q", string(p.Data[:12]))
		if err := bp.UnpinPage(id, false); err != nil {
			return err
		}
	}

	if err := bp.FlushAll(); err != nil {
		return err
	}

	stats := bp.Stats()
	fmt.Printf("hits=%d misses=%d evictions=%d reads=%d writes=%d hit_ratio=%.2f\n",
		stats.Hits, stats.Misses, stats.Evictions, stats.DiskReads, stats.DiskWrites, stats.HitRatio())

	infos, hand := bp.Snapshot()
	fmt.Printf("clock hand: %d, unpinned: %d/%d\n", hand, bp.UnpinnedCount(), bp.PoolSize())
	for _, info := range infos {
		fmt.Println(info)
	}
	return nil
}
