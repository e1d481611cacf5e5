package deezer

const (
	// gwAPIURL is the private web-player API endpoint.
	// The scheme is http by protocol quirk; the server upgrades it.
	gwAPIURL = "http://www.deezer.com/ajax/gw-light.php"

	// publicAPIURL is the base URL of the public REST API.
	publicAPIURL = "https://api.deezer.com"

	// mediaAPIURL mints short-lived signed stream URLs.
	mediaAPIURL = "https://media.deezer.com/v1/get_url"

	// homeURL is the page the arl cookie is scoped to.
	homeURL = "https://www.deezer.com/"

	// imageCDNURLTemplate serves album cover art; parameters are the
	// picture hash and the square size in pixels.
	imageCDNURLTemplate = "https://e-cdns-images.dzcdn.net/images/cover/%s/%dx%d-000000-80-0-0.jpg"
)

// gw-light method names.
const (
	methodGetUserData      = "deezer.getUserData"
	methodPagePlaylist     = "deezer.pagePlaylist"
	methodSongGetData      = "song.getData"
	methodSongGetListData  = "song.getListData"
	methodSongFavoriteIDs  = "song.getFavoriteIds"
	methodSongListByAlbum  = "song.getListByAlbum"
	methodPlaylistGetSongs = "playlist.getSongs"
	methodAlbumDiscography = "album.getDiscography"
	methodArtistGetData    = "artist.getData"
)

const (
	// mediaCipherName is the only stream cipher this client understands.
	mediaCipherName = "BF_CBC_STRIPE"

	// arlCookieName is the session cookie carrying the credential.
	arlCookieName = "arl"

	// trackBatchSize caps how many track IDs a single song.getListData call carries.
	trackBatchSize = 50

	// discographyPageSize is the page size for album.getDiscography pagination.
	discographyPageSize = 100

	// favoritesFetchLimit is the upper bound on favorite IDs fetched in one call.
	favoritesFetchLimit = 100000

	// artistSearchLimit caps public artist search results.
	artistSearchLimit = 20
)

const (
	// tracksCacheSize defines the maximum number of track entries to cache.
	tracksCacheSize = 10000
	// albumTracksCacheSize defines the maximum number of album track lists to cache.
	albumTracksCacheSize = 2000
)
