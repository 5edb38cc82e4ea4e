package sqldb

// placeColumns is the SELECT list shared by every read; scanPlace follows this order.
const placeColumns = `
  places_id,
  name,
  image,
  address,
  latitude,
  longitude,
  category,
  external_link,
  city,
  maps_id,
  description,
  arabic_name,
  tags,
  location,
  rating`

const insertPlaceSQL = `
INSERT INTO places
  (places_id, name, image, address, latitude, longitude, category, external_link,
   city, maps_id, description, arabic_name, tags, location, rating)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const fetchAllSQL = `SELECT` + placeColumns + `
FROM places
ORDER BY created_at, places_id`

const getPlaceSQL = `SELECT` + placeColumns + `
FROM places
WHERE places_id = ?`

const existsSQL = `SELECT 1 FROM places WHERE places_id = ?`

// Callers append the WHERE clause built from the query.
const searchPlacesSQL = `SELECT` + placeColumns + `
FROM places`

// Rows without coordinates keep the maps_id placeholder and are skipped.
const listInBoundsSQL = `SELECT` + placeColumns + `
FROM places
WHERE latitude BETWEEN ? AND ?
  AND longitude BETWEEN ? AND ?
  AND maps_id <> ?`

const categoryCountsSQL = `
SELECT category, COUNT(*) AS n
FROM places
GROUP BY category
ORDER BY n DESC, category`
