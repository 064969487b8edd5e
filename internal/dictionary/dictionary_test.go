package dictionary_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/FAU-CDI/kdict/internal/artist"
	"github.com/FAU-CDI/kdict/internal/dictionary"
	"github.com/FAU-CDI/kdict/internal/rdfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(rows ...[3]string) []artist.Record {
	table := artist.Table{Header: artist.Columns}
	for _, row := range rows {
		table.Rows = append(table.Rows, row[:])
	}
	return artist.Normalize(table)
}

func newDictionary(t *testing.T, opts dictionary.Options, rows ...[3]string) *dictionary.Dictionary {
	t.Helper()

	dict, err := dictionary.New(records(rows...), opts)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, dict.Close()) })
	return dict
}

func TestDictionary_Aespa(t *testing.T) {
	t.Parallel()

	dict := newDictionary(t, dictionary.Options{}, [3]string{"Aespa", "SM", "2020"})

	results := dict.Search("aes")
	require.Len(t, results, 1)
	assert.Equal(t, "Aespa", results[0].Name.Value)

	got := dict.ArtistTriples("Aespa")
	assert.Contains(t, got, "kd:Aespa")
	assert.Contains(t, got, "dc:creator")
	assert.Contains(t, got, "kd:SM")
	assert.Contains(t, got, "dc:date")
	assert.Contains(t, got, `"2020"`)

	assert.Empty(t, strings.TrimSpace(dict.ArtistTriples("NoSuchArtist")))
}

func TestDictionary_Empty(t *testing.T) {
	t.Parallel()

	dict := newDictionary(t, dictionary.Options{})
	assert.Zero(t, dict.Len())
	assert.Empty(t, dict.Search("anything"))
	assert.Empty(t, strings.TrimSpace(dict.ArtistTriples("anything")))

	_, err := dict.Resolve("anything")
	assert.ErrorIs(t, err, dictionary.ErrNoMatch)
}

func TestDictionary_Resolve(t *testing.T) {
	t.Parallel()

	dict := newDictionary(t, dictionary.Options{},
		[3]string{"Aespa", "SM", "2020"},
		[3]string{"Twice", "JYP", "2015"},
		[3]string{"TWICE", "JYP", "2015"},
	)

	record, err := dict.Resolve("aesp")
	require.NoError(t, err)
	assert.Equal(t, "Aespa", record.Name.Value)

	_, err = dict.Resolve("twice")
	assert.ErrorIs(t, err, dictionary.ErrAmbiguous)

	_, err = dict.Resolve("blackpink")
	assert.ErrorIs(t, err, dictionary.ErrNoMatch)
}

func TestDictionary_Describe(t *testing.T) {
	t.Parallel()

	dict := newDictionary(t, dictionary.Options{CacheTTL: -1},
		[3]string{"Aespa", "SM", "2020"},
		[3]string{"Aespa", "SM", "2020"},
		[3]string{"Aespa", "Hybe", "2021"},
	)

	record := artist.Record{Name: artist.MakeField("Aespa")}
	got, err := dict.Describe(record, rdfx.NTriples)
	require.NoError(t, err)

	// the union of both records, without duplicates
	assert.Equal(t, 4, strings.Count(got, "\n"))
	assert.Contains(t, got, "<http://www.kpopdictionary.com/Hybe>")
	assert.Contains(t, got, `"2021"`)

	_, err = dict.Describe(record, rdfx.Format("rdfxml"))
	assert.ErrorIs(t, err, rdfx.ErrUnknownFormat)
}

func TestDictionary_Disk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	dict, err := dictionary.New(records([3]string{"Aespa", "SM", "2020"}), dictionary.Options{Dir: dir})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, dict.ID().String(), entries[0].Name())

	assert.Contains(t, dict.ArtistTriples("Aespa"), "kd:SM")
	require.NoError(t, dict.Close())

	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = dict.Describe(artist.Record{Name: artist.MakeField("Aespa")}, rdfx.Turtle)
	assert.ErrorIs(t, err, dictionary.ErrClosed)
	assert.Empty(t, dict.ArtistTriples("Aespa"))
}

func TestDictionary_Concurrent(t *testing.T) {
	t.Parallel()

	dict := newDictionary(t, dictionary.Options{},
		[3]string{"Aespa", "SM", "2020"},
		[3]string{"Twice", "JYP", "2015"},
	)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			name := "Aespa"
			if i%2 == 0 {
				name = "Twice"
			}
			assert.Len(t, dict.Search(name), 1)
			assert.NotEmpty(t, dict.ArtistTriples(name))
		}()
	}
	wg.Wait()
}

const csvV1 = "artist,company,debut_year\nAespa,SM,2020\n"
const csvV2 = "artist,company,debut_year\nAespa,SM,2020\nIVE,Starship,2021\n"

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "artists.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvV2), 0o600))

	dict, err := dictionary.Load(context.Background(), path, nil, dictionary.Options{})
	require.NoError(t, err)
	defer func() { assert.NoError(t, dict.Close()) }()

	assert.Equal(t, path, dict.Source())
	assert.Equal(t, 2, dict.Len())
	assert.Len(t, dict.Search("ive"), 1)
}

func TestLoad_Unavailable(t *testing.T) {
	t.Parallel()

	dict, err := dictionary.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), nil, dictionary.Options{})
	require.NoError(t, err)
	defer func() { assert.NoError(t, dict.Close()) }()

	assert.Zero(t, dict.Len())
	assert.Empty(t, dict.Search(""))
}

func TestHolder_Reload(t *testing.T) {
	t.Parallel()

	errLoad := errors.New("load failed")

	var (
		calls int
		fail  bool
	)
	holder := dictionary.NewHolder(func(ctx context.Context) (*dictionary.Dictionary, error) {
		if fail {
			return nil, errLoad
		}
		calls++

		rows := [][3]string{{"Aespa", "SM", "2020"}}
		if calls > 1 {
			rows = append(rows, [3]string{"IVE", "Starship", "2021"})
		}
		return dictionary.New(records(rows...), dictionary.Options{})
	}, nil)
	defer func() { assert.NoError(t, holder.Close()) }()

	var published []*dictionary.Dictionary
	holder.OnReload(func(d *dictionary.Dictionary) { published = append(published, d) })

	assert.Nil(t, holder.Get())

	require.NoError(t, holder.Reload(context.Background()))
	first := holder.Get()
	require.NotNil(t, first)
	assert.Equal(t, 1, first.Len())

	require.NoError(t, holder.Reload(context.Background()))
	second := holder.Get()
	assert.Equal(t, 2, second.Len())
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, uint64(2), holder.Reloads())
	assert.Equal(t, []*dictionary.Dictionary{first, second}, published)

	// the replaced dictionary stays readable until the next reload
	aespa := artist.Record{Name: artist.MakeField("Aespa")}
	_, err := first.Describe(aespa, rdfx.Turtle)
	assert.NoError(t, err)

	require.NoError(t, holder.Reload(context.Background()))
	third := holder.Get()
	_, err = first.Describe(aespa, rdfx.Turtle)
	assert.ErrorIs(t, err, dictionary.ErrClosed)
	_, err = second.Describe(aespa, rdfx.Turtle)
	assert.NoError(t, err)

	// a failed reload keeps the current dictionary
	fail = true
	assert.ErrorIs(t, holder.Reload(context.Background()), errLoad)
	assert.Same(t, third, holder.Get())
	_, err = second.Describe(aespa, rdfx.Turtle)
	assert.NoError(t, err)
}

func TestHolder_ReadDuringReload(t *testing.T) {
	t.Parallel()

	holder := dictionary.NewHolder(func(ctx context.Context) (*dictionary.Dictionary, error) {
		return dictionary.New(records([3]string{"Aespa", "SM", "2020"}), dictionary.Options{})
	}, nil)
	require.NoError(t, holder.Reload(context.Background()))

	dict := holder.Get()
	record, err := dict.Resolve("aes")
	require.NoError(t, err)

	require.NoError(t, holder.Reload(context.Background()))
	assert.NotSame(t, dict, holder.Get())

	got, err := dict.Describe(record, rdfx.Turtle)
	require.NoError(t, err)
	assert.Contains(t, got, "kd:SM")
	assert.Contains(t, dict.ArtistTriples("Aespa"), "kd:Aespa")

	// closing the holder closes the retired dictionary too
	require.NoError(t, holder.Close())
	assert.Nil(t, holder.Get())
	_, err = dict.Describe(record, rdfx.Turtle)
	assert.ErrorIs(t, err, dictionary.ErrClosed)
	assert.NoError(t, holder.Close())
}

func TestWatch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "artists.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvV1), 0o600))

	holder := dictionary.NewHolder(func(ctx context.Context) (*dictionary.Dictionary, error) {
		return dictionary.Load(ctx, path, nil, dictionary.Options{})
	}, nil)
	defer func() { assert.NoError(t, holder.Close()) }()
	require.NoError(t, holder.Reload(context.Background()))
	require.Equal(t, 1, holder.Get().Len())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- dictionary.Watch(ctx, path, 50*time.Millisecond, holder, nil) }()

	// give the watcher time to start
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(csvV2), 0o600))

	assert.Eventually(t, func() bool {
		return holder.Get().Len() == 2
	}, 5*time.Second, 25*time.Millisecond)

	// moving the file away keeps the current dictionary
	reloads := holder.Reloads()
	require.NoError(t, os.Rename(path, path+".bak"))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, reloads, holder.Reloads())
	assert.Equal(t, 2, holder.Get().Len())

	// and creating it again reloads
	require.NoError(t, os.WriteFile(path, []byte(csvV1), 0o600))
	assert.Eventually(t, func() bool {
		return holder.Get().Len() == 1
	}, 5*time.Second, 25*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
