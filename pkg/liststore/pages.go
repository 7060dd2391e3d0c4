package liststore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cktan/liststore/internal/metrics"
	"github.com/cktan/liststore/pkg/blobcache"
	"github.com/cktan/liststore/pkg/codec"
	"github.com/cktan/liststore/pkg/objectstore"
	"github.com/cktan/liststore/pkg/storeerr"
)

const metricsComponent = "liststore"

func decodeIndexPage(name string, raw []byte) (*IndexPage, error) {
	if len(raw) == 0 {
		return emptyIndexPage(), nil
	}
	var ip IndexPage
	if err := json.Unmarshal(raw, &ip); err != nil {
		return nil, storeerr.NewDataError(name, "malformed index page: "+err.Error())
	}
	if ip.Magic != indexPageMagic || ip.Version != indexPageVersion {
		return nil, storeerr.NewDataError(name, "unrecognized index page container")
	}
	if ip.YMTab == nil {
		ip.YMTab = map[string]Summary{}
	}
	return &ip, nil
}

func encodeIndexPage(ip *IndexPage) ([]byte, error) {
	ip.Magic = indexPageMagic
	ip.Version = indexPageVersion

	// Each ymtab record repeats its own month stamp on the wire.
	type wireSummary struct {
		YYYYMM string `json:"yyyymm"`
		Summary
	}
	ymtab := make(map[string]wireSummary, len(ip.YMTab))
	for ym, summary := range ip.YMTab {
		ymtab[ym] = wireSummary{YYYYMM: ym, Summary: summary}
	}
	return json.Marshal(struct {
		Magic   string                 `json:"magic"`
		Version int                    `json:"version"`
		YMTab   map[string]wireSummary `json:"ymtab"`
	}{ip.Magic, ip.Version, ymtab})
}

func decodeDataPage(name string, raw []byte) (*DataPage, error) {
	if len(raw) == 0 {
		return emptyDataPage(), nil
	}
	var dp DataPage
	if err := json.Unmarshal(raw, &dp); err != nil {
		return nil, storeerr.NewDataError(name, "malformed data page: "+err.Error())
	}
	if dp.Magic != dataPageMagic || dp.Version != dataPageVersion {
		return nil, storeerr.NewDataError(name, "unrecognized data page container")
	}
	return &dp, nil
}

func encodeDataPage(dp *DataPage) ([]byte, error) {
	dp.Magic = dataPageMagic
	dp.Version = dataPageVersion
	if dp.CTab == nil {
		dp.CTab = []Item{}
	}
	return json.Marshal(dp)
}

// readPage fetches the gzip-framed object at logicalKey+".gz", preferring
// the cache, and falls back to the object store on a miss, repopulating
// the cache. A missing key is not an error: it returns an empty page.
func (s *ListStore) readPage(ctx context.Context, logicalKey string) (page []byte, err error) {
	start := time.Now()
	defer func() { metrics.ObserveOperation(metricsComponent, "read_page", start, err) }()

	objKey := logicalKey + ".gz"
	cacheKey := blobcache.ListStoreKey(s.bucket, objKey)

	if z, ok, cerr := s.cache.Get(ctx, cacheKey); cerr != nil {
		err = storeerr.Wrap(logicalKey, "cache get", cerr)
		return nil, err
	} else if ok {
		metrics.ObserveCacheResult(metricsComponent, true)
		page, err = decompressPage(logicalKey, z)
		return page, err
	}
	metrics.ObserveCacheResult(metricsComponent, false)

	z, gerr := s.objects.Get(ctx, objKey)
	if errors.Is(gerr, objectstore.ErrNotFound) {
		_ = s.cache.Delete(ctx, cacheKey)
		return []byte{}, nil
	}
	if gerr != nil {
		err = storeerr.Wrap(logicalKey, "object get", gerr)
		return nil, err
	}

	if serr := s.cache.Set(ctx, cacheKey, z, blobcache.TTL); serr != nil {
		err = storeerr.Wrap(logicalKey, "cache set", serr)
		return nil, err
	}
	page, err = decompressPage(logicalKey, z)
	return page, err
}

func decompressPage(logicalKey string, z []byte) ([]byte, error) {
	plain, err := codec.Decompress(z)
	if err != nil {
		return nil, storeerr.NewDataError(logicalKey, "decompress: "+err.Error())
	}
	return plain, nil
}

// writePage compresses plain and writes it under logicalKey+".gz" to the
// object store, then to the cache.
func (s *ListStore) writePage(ctx context.Context, logicalKey string, plain []byte) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveOperation(metricsComponent, "write_page", start, err) }()

	objKey := logicalKey + ".gz"

	z, cerr := codec.Compress(plain)
	if cerr != nil {
		err = storeerr.NewDataError(logicalKey, "compress: "+cerr.Error())
		return err
	}
	if perr := s.objects.Put(ctx, objKey, z); perr != nil {
		err = storeerr.Wrap(logicalKey, "object put", perr)
		return err
	}

	cacheKey := blobcache.ListStoreKey(s.bucket, objKey)
	if serr := s.cache.Set(ctx, cacheKey, z, blobcache.TTL); serr != nil {
		err = storeerr.Wrap(logicalKey, "cache set", serr)
		return err
	}
	return nil
}

func (s *ListStore) readIndexPage(ctx context.Context, name string) (*IndexPage, error) {
	raw, err := s.readPage(ctx, name)
	if err != nil {
		return nil, err
	}
	return decodeIndexPage(name, raw)
}

func (s *ListStore) writeIndexPage(ctx context.Context, name string, ip *IndexPage) error {
	raw, err := encodeIndexPage(ip)
	if err != nil {
		return storeerr.NewDataError(name, "encode index page: "+err.Error())
	}
	return s.writePage(ctx, name, raw)
}

// readDataPage returns the data page for name/yyyymm, truncated to the
// index page's recorded total. A data page may be written partially under
// a crash; the index page is only ever advanced after the data page lands,
// so total is always a safe upper bound on valid rows.
func (s *ListStore) readDataPage(ctx context.Context, name, yyyymm string) (*DataPage, error) {
	ip, err := s.readIndexPage(ctx, name)
	if err != nil {
		return nil, err
	}
	summary, ok := ip.YMTab[yyyymm]
	if !ok {
		return emptyDataPage(), nil
	}

	raw, err := s.readPage(ctx, name+"/"+yyyymm)
	if err != nil {
		return nil, err
	}
	dp, err := decodeDataPage(name, raw)
	if err != nil {
		return nil, err
	}
	if len(dp.CTab) > summary.Total {
		dp.CTab = dp.CTab[:summary.Total]
	}
	return dp, nil
}

// writeDataPage recomputes yyyymm's Summary from dp and writes the data
// page before the index page, so a crash between the two writes always
// leaves the index page behind, never ahead.
func (s *ListStore) writeDataPage(ctx context.Context, name, yyyymm string, dp *DataPage) error {
	ip, err := s.readIndexPage(ctx, name)
	if err != nil {
		return err
	}

	summary := Summary{Total: len(dp.CTab)}
	var ctimeMax int64
	for _, it := range dp.CTab {
		if it.Seen {
			summary.Seen++
		}
		if it.Dismissed {
			summary.Dismissed++
		}
		if it.Ctime > ctimeMax {
			ctimeMax = it.Ctime
		}
	}
	if ctimeMax == 0 {
		ctimeMax, err = monthStartEpoch(yyyymm)
		if err != nil {
			return storeerr.NewDataError(name, err.Error())
		}
	}
	summary.CtimeMax = ctimeMax

	raw, err := encodeDataPage(dp)
	if err != nil {
		return storeerr.NewDataError(name, "encode data page: "+err.Error())
	}
	if err := s.writePage(ctx, name+"/"+yyyymm, raw); err != nil {
		return err
	}

	ip.YMTab[yyyymm] = summary
	return s.writeIndexPage(ctx, name, ip)
}
