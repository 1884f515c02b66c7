package importer

const capabilitiesFixture = `<?xml version="1.0" encoding="UTF-8"?>
<sos:Capabilities version="1.0.0"
    xmlns:sos="http://www.opengis.net/sos/1.0"
    xmlns:gml="http://www.opengis.net/gml"
    xmlns:xlink="http://www.w3.org/1999/xlink">
  <sos:Contents>
    <sos:ObservationOfferingList>
      <sos:ObservationOffering gml:id="WQ2">
        <gml:name>Water quality station group 2</gml:name>
        <sos:time>
          <gml:TimePeriod>
            <gml:beginPosition>2015-05-31T00:00:00Z</gml:beginPosition>
            <gml:endPosition>2015-06-03T00:00:00Z</gml:endPosition>
          </gml:TimePeriod>
        </sos:time>
        <sos:procedure xlink:href="urn:ogc:object:feature:Sensor:station_1"/>
        <sos:procedure xlink:href="urn:ogc:object:feature:Sensor:station_2"/>
        <sos:observedProperty xlink:href="urn:ogc:def:property:noaa:ndbc:air_temperature"/>
        <sos:responseFormat>text/xml;subtype=&quot;om/1.0.0&quot;</sos:responseFormat>
      </sos:ObservationOffering>
    </sos:ObservationOfferingList>
  </sos:Contents>
</sos:Capabilities>`

const observationFixture = `<?xml version="1.0" encoding="UTF-8"?>
<om:ObservationCollection
    xmlns:om="http://www.opengis.net/om/1.0"
    xmlns:gml="http://www.opengis.net/gml"
    xmlns:swe="http://www.opengis.net/swe/1.0.1"
    xmlns:sa="http://www.opengis.net/sampling/1.0"
    xmlns:xlink="http://www.w3.org/1999/xlink">
  <om:member>
    <om:Observation>
      <gml:name>urn:ogc:object:feature:Sensor:station_1</gml:name>
      <om:procedure xlink:href="urn:ogc:object:feature:Sensor:station_1"/>
      <om:featureOfInterest>
        <sa:SamplingPoint>
          <sa:position>
            <gml:Point srsName="urn:ogc:def:crs:EPSG::4326">
              <gml:coordinates>17.39,62.29</gml:coordinates>
            </gml:Point>
          </sa:position>
        </sa:SamplingPoint>
      </om:featureOfInterest>
      <om:result>
        <swe:DataArray>
          <swe:elementType name="Components">
            <swe:DataRecord>
              <swe:field name="Time">
                <swe:Time definition="urn:ogc:data:time:iso8601"/>
              </swe:field>
              <swe:field name="air_temperature">
                <swe:Quantity definition="urn:ogc:def:property:noaa:ndbc:air_temperature"/>
              </swe:field>
            </swe:DataRecord>
          </swe:elementType>
          <swe:encoding>
            <swe:TextBlock decimalSeparator="." tokenSeparator="," blockSeparator=";"/>
          </swe:encoding>
          <swe:values>2015-06-01T00:00:00+0200,12.5;2015-06-01T01:00:00+0200,13.0;2015-06-01T02:00:00+0200,13.5</swe:values>
        </swe:DataArray>
      </om:result>
    </om:Observation>
  </om:member>
  <om:member>
    <om:Observation>
      <gml:name>urn:ogc:object:feature:Sensor:station_2</gml:name>
      <om:procedure xlink:href="urn:ogc:object:feature:Sensor:station_2"/>
      <om:featureOfInterest>
        <sa:SamplingPoint>
          <sa:position>
            <gml:Point srsName="urn:ogc:def:crs:EPSG::4326">
              <gml:coordinates>17.41,62.31</gml:coordinates>
            </gml:Point>
          </sa:position>
        </sa:SamplingPoint>
      </om:featureOfInterest>
      <om:result>
        <swe:DataArray>
          <swe:elementType name="Components">
            <swe:DataRecord>
              <swe:field name="Time">
                <swe:Time definition="urn:ogc:data:time:iso8601"/>
              </swe:field>
              <swe:field name="air_temperature">
                <swe:Quantity definition="urn:ogc:def:property:noaa:ndbc:air_temperature"/>
              </swe:field>
            </swe:DataRecord>
          </swe:elementType>
          <swe:encoding>
            <swe:TextBlock decimalSeparator="." tokenSeparator="," blockSeparator=";"/>
          </swe:encoding>
          <swe:values>2015-06-01T00:00:00+0200,10.0;2015-06-01T01:00:00+0200,11.0;2015-06-01T02:00:00+0200,12.0</swe:values>
        </swe:DataArray>
      </om:result>
    </om:Observation>
  </om:member>
</om:ObservationCollection>`

// emptyMemberFixture declares the air_temperature column for a third
// station but carries no values, spliced into observationFixture by the
// tests covering empty procedures.
const emptyMemberFixture = `  <om:member>
    <om:Observation>
      <gml:name>urn:ogc:object:feature:Sensor:station_3</gml:name>
      <om:procedure xlink:href="urn:ogc:object:feature:Sensor:station_3"/>
      <om:featureOfInterest>
        <sa:SamplingPoint>
          <sa:position>
            <gml:Point srsName="urn:ogc:def:crs:EPSG::4326">
              <gml:coordinates>17.43,62.33</gml:coordinates>
            </gml:Point>
          </sa:position>
        </sa:SamplingPoint>
      </om:featureOfInterest>
      <om:result>
        <swe:DataArray>
          <swe:elementType name="Components">
            <swe:DataRecord>
              <swe:field name="Time">
                <swe:Time definition="urn:ogc:data:time:iso8601"/>
              </swe:field>
              <swe:field name="air_temperature">
                <swe:Quantity definition="urn:ogc:def:property:noaa:ndbc:air_temperature"/>
              </swe:field>
            </swe:DataRecord>
          </swe:elementType>
          <swe:encoding>
            <swe:TextBlock decimalSeparator="." tokenSeparator="," blockSeparator=";"/>
          </swe:encoding>
          <swe:values></swe:values>
        </swe:DataArray>
      </om:result>
    </om:Observation>
  </om:member>
`

const sensorFixture = `<?xml version="1.0" encoding="UTF-8"?>
<sml:SensorML version="1.0.1"
    xmlns:sml="http://www.opengis.net/sensorML/1.0.1"
    xmlns:gml="http://www.opengis.net/gml">
  <sml:member>
    <sml:System>
      <gml:name>station_1</gml:name>
      <gml:description>Coastal monitoring station</gml:description>
      <sml:keywords>
        <sml:KeywordList>
          <sml:keyword>weather</sml:keyword>
        </sml:KeywordList>
      </sml:keywords>
      <sml:classification>
        <sml:ClassifierList>
          <sml:classifier>
            <sml:Classifier name="Sensor Type">
              <sml:Term definition="urn:sensor:classifier:sensorType">
                <sml:value>thermometer</sml:value>
              </sml:Term>
            </sml:Classifier>
          </sml:classifier>
        </sml:ClassifierList>
      </sml:classification>
      <sml:position>
        <sml:location>
          <gml:Point srsName="urn:ogc:def:crs:EPSG::4326">
            <gml:coordinates>17.39,62.29,5.0</gml:coordinates>
          </gml:Point>
        </sml:location>
      </sml:position>
    </sml:System>
  </sml:member>
</sml:SensorML>`
